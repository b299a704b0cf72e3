// Package gog looks up game titles in the public GOG product API.
package gog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/gridsync/pkg/whttp"
	"github.com/tidwall/gjson"
)

const DefaultEndpoint = "https://api.gog.com/v2/games"

type Source struct {
	Client   *retryablehttp.Client
	Endpoint string
	// Timeout bounds each lookup. Zero selects whttp.DefaultTimeout.
	Timeout time.Duration
}

func New(client *retryablehttp.Client) *Source {
	return &Source{Client: client, Endpoint: DefaultEndpoint}
}

func (s *Source) Name() string { return "GOG" }

// LookupName returns the product title for a GOG product id.
func (s *Source) LookupName(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", nil
	}

	ctx, cancel := whttp.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    strings.TrimRight(s.Endpoint, "/") + "/" + url.PathEscape(id),
	}, s.Client)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("GOG API returned status %d", res.StatusCode)
	}
	if !gjson.ValidBytes(res.Body) {
		return "", fmt.Errorf("GOG API returned invalid JSON")
	}

	return strings.TrimSpace(gjson.GetBytes(res.Body, "_embedded.product.title").String()), nil
}
