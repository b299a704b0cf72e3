// Package epic looks up Epic Games Store titles in a community maintained
// item index hosted on GitHub.
package epic

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/gridsync/pkg/whttp"
	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://raw.githubusercontent.com/nachoaldamav/items-tracker/refs/heads/main/database/items"

type Source struct {
	Client   *retryablehttp.Client
	Endpoint string
	// Timeout bounds each lookup. Zero selects whttp.DefaultTimeout.
	Timeout time.Duration
}

func New(client *retryablehttp.Client) *Source {
	return &Source{Client: client, Endpoint: DefaultEndpoint}
}

func (s *Source) Name() string { return "Epic" }

// LookupName returns the title of an Epic catalog item id. Items missing
// from the index yield "" and no error.
func (s *Source) LookupName(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", nil
	}

	ctx, cancel := whttp.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    strings.TrimRight(s.Endpoint, "/") + "/" + url.PathEscape(id) + ".json",
	}, s.Client)
	if err != nil {
		return "", err
	}
	if res.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if !res.OK() {
		return "", fmt.Errorf("epic item index returned status %d", res.StatusCode)
	}
	if !gjson.ValidBytes(res.Body) {
		return "", fmt.Errorf("epic item index returned invalid JSON")
	}

	return strings.TrimSpace(gjson.GetBytes(res.Body, "title").String()), nil
}
