package names

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetGameByPlatformID(ctx context.Context, platformKey, platformID string) (*steamgriddb.Game, error) {
	args := m.Called(ctx, platformKey, platformID)
	game, _ := args.Get(0).(*steamgriddb.Game)
	return game, args.Error(1)
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Name() string { return "mock" }

func (m *mockSource) LookupName(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestResolveCatalogMatchSkipsFallback(t *testing.T) {
	catalog := new(mockCatalog)
	source := new(mockSource)
	catalog.On("GetGameByPlatformID", mock.Anything, "gog", "1207658924").
		Return(&steamgriddb.Game{ID: 5, Name: "The Witcher"}, nil)

	r := NewResolver(catalog, map[library.Platform]Source{library.GOG: source}, nil, Options{Log: quietLog()})
	rec := library.NewGameRecord("gog", "gog:1207658924")
	r.Resolve(context.Background(), rec)

	assert.Equal(t, "The Witcher", rec.DisplayName)
	assert.True(t, rec.HasCatalogMatch)
	catalog.AssertNumberOfCalls(t, "GetGameByPlatformID", 1)
	source.AssertNumberOfCalls(t, "LookupName", 0)
}

func TestResolveFallsBackAndCaches(t *testing.T) {
	tests := []struct {
		name        string
		catalogGame *steamgriddb.Game
		catalogErr  error
	}{
		{"catalog absent", nil, nil},
		{"catalog empty name", &steamgriddb.Game{ID: 1}, nil},
		{"catalog error", nil, errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(mockCatalog)
			source := new(mockSource)
			catalog.On("GetGameByPlatformID", mock.Anything, "egs", mock.Anything).Return(tt.catalogGame, tt.catalogErr)
			source.On("LookupName", mock.Anything, "item123").Return("Fortnite", nil).Once()

			cache := NewCache()
			r := NewResolver(catalog, map[library.Platform]Source{library.Epic: source}, cache, Options{Log: quietLog()})

			first := library.NewGameRecord("epic", "epic:ns:item123")
			r.Resolve(context.Background(), first)
			second := library.NewGameRecord("epic", "epic:other:ITEM123")
			r.Resolve(context.Background(), second)

			assert.Equal(t, "Fortnite", first.DisplayName)
			assert.False(t, first.HasCatalogMatch)
			assert.Equal(t, "Fortnite", second.DisplayName)
			source.AssertNumberOfCalls(t, "LookupName", 1)
			assert.Equal(t, 1, cache.Len())
		})
	}
}

func TestResolveFallbackFailureIsUnknown(t *testing.T) {
	catalog := new(mockCatalog)
	source := new(mockSource)
	catalog.On("GetGameByPlatformID", mock.Anything, "uplay", "5").Return(nil, nil)
	source.On("LookupName", mock.Anything, "5").Return("", errors.New("offline"))

	cache := NewCache()
	r := NewResolver(catalog, map[library.Platform]Source{library.Ubisoft: source}, cache, Options{Log: quietLog()})
	rec := library.NewGameRecord("ubi", "ubi:5")
	r.Resolve(context.Background(), rec)

	assert.Equal(t, library.UnknownName, rec.DisplayName)
	assert.False(t, rec.HasCatalogMatch)
	assert.Zero(t, cache.Len())
}

func TestResolveWithoutSource(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetGameByPlatformID", mock.Anything, "origin", "abc").Return(nil, nil)

	r := NewResolver(catalog, nil, nil, Options{Log: quietLog()})
	rec := library.NewGameRecord("ea", "ea:abc")
	r.Resolve(context.Background(), rec)

	assert.Equal(t, library.UnknownName, rec.DisplayName)
	catalog.AssertExpectations(t)
}

func TestResolveUnknownPlatformSkipsCatalog(t *testing.T) {
	catalog := new(mockCatalog)
	r := NewResolver(catalog, nil, nil, Options{Log: quietLog()})
	rec := library.NewGameRecord("itch", "itch:1")
	r.Resolve(context.Background(), rec)

	assert.Equal(t, library.UnknownName, rec.DisplayName)
	catalog.AssertNotCalled(t, "GetGameByPlatformID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveAllSortsAndRunsConcurrently(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetGameByPlatformID", mock.Anything, "steam", "1").Return(&steamgriddb.Game{Name: "Zeta"}, nil)
	catalog.On("GetGameByPlatformID", mock.Anything, "steam", "2").Return(nil, nil)
	catalog.On("GetGameByPlatformID", mock.Anything, "steam", "3").Return(&steamgriddb.Game{Name: "Alpha"}, nil)

	records := []*library.GameRecord{
		library.NewGameRecord("steam", "steam:1"),
		library.NewGameRecord("steam", "steam:2"),
		library.NewGameRecord("steam", "steam:3"),
	}

	r := NewResolver(catalog, nil, nil, Options{Concurrency: 3, Log: quietLog()})
	got := r.ResolveAll(context.Background(), records)

	var names []string
	for _, rec := range got {
		names = append(names, rec.DisplayName)
	}
	assert.Equal(t, []string{"Alpha", "Zeta", "Unknown"}, names)
}

func TestResolveAllStopsOnCancel(t *testing.T) {
	catalog := new(mockCatalog)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := []*library.GameRecord{library.NewGameRecord("steam", "steam:1")}
	r := NewResolver(catalog, nil, nil, Options{Log: quietLog()})
	r.ResolveAll(ctx, records)

	assert.Equal(t, library.UnknownName, records[0].DisplayName)
	catalog.AssertNotCalled(t, "GetGameByPlatformID", mock.Anything, mock.Anything, mock.Anything)
}

func TestScanThenResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	root := "/ThirdPartyLibraries"
	require.NoError(t, afero.WriteFile(fs, root+"/steam/steam.manifest",
		[]byte(`{"gameCache":{"version":1,"a":{"id":"steam:440","addedDate":"1700000000000"}}}`), 0o644))

	scanner := &library.Scanner{Fs: fs, Log: quietLog()}
	records, err := scanner.Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 1)

	catalog := new(mockCatalog)
	catalog.On("GetGameByPlatformID", mock.Anything, "steam", "440").Return(&steamgriddb.Game{Name: "Team Fortress 2"}, nil)
	NewResolver(catalog, nil, nil, Options{Log: quietLog()}).ResolveAll(context.Background(), records)

	rec := records[0]
	assert.Equal(t, "Team Fortress 2", rec.DisplayName)
	assert.True(t, rec.HasCatalogMatch)
	assert.Equal(t, library.ImageNotFound, rec.ImageFileName)
	assert.False(t, rec.HasBackup)
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Put(library.GOG, "ABC", "Name")
			cache.Get(library.GOG, "abc")
		}()
	}
	wg.Wait()

	name, ok := cache.Get(library.GOG, "aBc")
	assert.True(t, ok)
	assert.Equal(t, "Name", name)

	_, ok = cache.Get(library.Epic, "abc")
	assert.False(t, ok)

	cache.Put(library.GOG, "empty", "")
	_, ok = cache.Get(library.GOG, "empty")
	assert.False(t, ok)
}
