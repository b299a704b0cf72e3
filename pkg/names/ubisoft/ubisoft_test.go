package ubisoft

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

const list = `# UPLAY GAME ID

232 - Beyond Good and Evil™
 635 - Far Cry 5 
no separator here
 - missing id
42 - 
11 - Rayman - Origins
`

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseList(t *testing.T) {
	want := map[string]string{
		"232": "Beyond Good and Evil™",
		"635": "Far Cry 5",
		"11":  "Rayman - Origins",
	}
	if got := ParseList(list); !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseList() = %v, want %v", got, want)
	}
}

func TestLookupNameDownloadsOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, list)
	}))
	defer srv.Close()

	s := New(nil, quietLog())
	s.ListURL = srv.URL

	for _, id := range []string{"232", "635", "999"} {
		if _, err := s.LookupName(context.Background(), id); err != nil {
			t.Fatalf("LookupName(%q) error = %v", id, err)
		}
	}
	name, _ := s.LookupName(context.Background(), " 635 ")
	if name != "Far Cry 5" {
		t.Fatalf("LookupName() = %q, want %q", name, "Far Cry 5")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("list downloaded %d times, want 1", got)
	}
}

func TestLookupNameFailedDownloadIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(nil, quietLog())
	s.ListURL = srv.URL

	for i := 0; i < 3; i++ {
		if _, err := s.LookupName(context.Background(), "232"); err == nil {
			t.Fatalf("LookupName() error = nil, want error")
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("list requested %d times, want 1", got)
	}
}

func TestLookupNameTimesOutOnStalledHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	}))
	defer srv.Close()

	s := New(nil, quietLog())
	s.ListURL = srv.URL
	s.Timeout = 100 * time.Millisecond

	start := time.Now()
	if _, err := s.LookupName(context.Background(), "232"); err == nil {
		t.Fatal("LookupName() error = nil, want timeout error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("LookupName() took %s against a stalled host", elapsed)
	}
}
