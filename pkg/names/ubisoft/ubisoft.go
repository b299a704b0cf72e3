// Package ubisoft resolves Ubisoft Connect game ids using a community
// maintained list of "<id> - <name>" lines.
package ubisoft

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/whttp"
)

const DefaultListURL = "https://raw.githubusercontent.com/Haoose/UPLAY_GAME_ID/refs/heads/master/README.md"

// Source downloads the list on first use. The download is attempted once
// per Source, successful or not, and the table is shared by every lookup.
type Source struct {
	Client  *retryablehttp.Client
	ListURL string
	Log     logrus.FieldLogger
	// Timeout bounds the list download. Zero selects whttp.DefaultTimeout.
	Timeout time.Duration

	once    sync.Once
	table   map[string]string
	loadErr error
}

func New(client *retryablehttp.Client, log logrus.FieldLogger) *Source {
	if log == nil {
		log = utils.Log
	}
	return &Source{Client: client, ListURL: DefaultListURL, Log: log}
}

func (s *Source) Name() string { return "Ubisoft" }

func (s *Source) LookupName(ctx context.Context, id string) (string, error) {
	s.once.Do(func() {
		s.table, s.loadErr = s.load(ctx)
		if s.loadErr == nil && s.Log != nil {
			s.Log.Debugf("Loaded %s", utils.Plural(len(s.table), "Ubisoft game", "Ubisoft games"))
		}
	})
	if s.loadErr != nil {
		return "", fmt.Errorf("error loading Ubisoft game list: %w", s.loadErr)
	}
	return s.table[strings.TrimSpace(id)], nil
}

func (s *Source) load(ctx context.Context) (map[string]string, error) {
	ctx, cancel := whttp.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    s.ListURL,
	}, s.Client)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return ParseList(res.BodyString()), nil
}

// ParseList reads "<id> - <name>" lines. Lines without the separator or
// with an empty side are ignored; a repeated id keeps the last name.
func ParseList(content string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idPart, namePart, found := strings.Cut(line, " - ")
		if !found {
			continue
		}
		idPart = strings.TrimSpace(idPart)
		namePart = strings.TrimSpace(namePart)
		if idPart == "" || namePart == "" {
			continue
		}
		table[idPart] = namePart
	}
	return table
}
