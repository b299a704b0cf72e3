// Package steamgriddb is a client for the SteamGridDB v2 API.
// Documentation: https://www.steamgriddb.com/api/v2
package steamgriddb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/whttp"
)

const (
	DefaultBaseURL = "https://www.steamgriddb.com/api/v2"
	DefaultTimeout = 30 * time.Second
)

// ErrInvalidArgument reports a programming or setup mistake: a missing API
// key, a non-positive timeout or an empty required argument.
var ErrInvalidArgument = errors.New("invalid argument")

// platformKeys is the SteamGridDB platform vocabulary.
var platformKeys = map[string]bool{
	"steam":  true,
	"gog":    true,
	"egs":    true,
	"uplay":  true,
	"bnet":   true,
	"origin": true,
}

// Config controls how the client talks to the API.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// HTTPClient is optional. A client passed here is shared and is not
	// released by Close.
	HTTPClient *retryablehttp.Client
	Log        logrus.FieldLogger
}

// DefaultConfig returns a configuration using the public endpoint and the
// default per-request timeout.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// ImageQuery narrows image listings. Empty fields are not sent.
type ImageQuery struct {
	Dimensions []string
	Styles     []string
	Mimes      []string
	Types      []string
}

// Client is one authenticated session. Create it with New, release it with Close.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	http       *retryablehttp.Client
	ownsClient bool
	log        logrus.FieldLogger
}

// New validates cfg and opens a session.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: SteamGridDB API key is required", ErrInvalidArgument)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%w: timeout must be greater than 0", ErrInvalidArgument)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	log := cfg.Log
	if log == nil {
		log = utils.Log
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		log:     log,
	}
	if c.http == nil {
		hc, err := whttp.NewClient(whttp.ClientOptions{})
		if err != nil {
			return nil, err
		}
		c.http = hc
		c.ownsClient = true
	}
	return c, nil
}

// Close releases the connections the session opened.
func (c *Client) Close() error {
	if c.ownsClient {
		whttp.CloseIdleConnections(c.http)
	}
	return nil
}

// SearchGames searches games by name. No match and transport failures both
// yield an empty list.
func (c *Client) SearchGames(ctx context.Context, term string) ([]Game, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", ErrInvalidArgument)
	}

	games, ok := get[[]Game](ctx, c, "search/autocomplete/"+url.PathEscape(term), nil)
	if !ok || games == nil {
		return []Game{}, nil
	}
	return games, nil
}

// GetGameByPlatformID looks a game up by its store id. It returns nil when
// the platform key is not supported or the game is unknown.
func (c *Client) GetGameByPlatformID(ctx context.Context, platformKey, platformID string) (*Game, error) {
	if err := validatePlatformArgs(platformKey, platformID); err != nil {
		return nil, err
	}
	if !c.supported(platformKey) {
		return nil, nil
	}

	game, ok := get[*Game](ctx, c, "games/"+platformKey+"/"+url.PathEscape(platformID), nil)
	if !ok {
		return nil, nil
	}
	return game, nil
}

// GetGameByID looks a game up by its SteamGridDB id.
func (c *Client) GetGameByID(ctx context.Context, gameID int) (*Game, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game ID must be positive", ErrInvalidArgument)
	}
	game, ok := get[*Game](ctx, c, "games/id/"+strconv.Itoa(gameID), nil)
	if !ok {
		return nil, nil
	}
	return game, nil
}

func (c *Client) GetGridsByPlatformID(ctx context.Context, platformKey, platformID string, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByPlatform(ctx, "grids", KindGrid, platformKey, platformID, q)
}

func (c *Client) GetIconsByPlatformID(ctx context.Context, platformKey, platformID string, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByPlatform(ctx, "icons", KindIcon, platformKey, platformID, q)
}

func (c *Client) GetHeroesByPlatformID(ctx context.Context, platformKey, platformID string, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByPlatform(ctx, "heroes", KindHero, platformKey, platformID, q)
}

func (c *Client) GetLogosByPlatformID(ctx context.Context, platformKey, platformID string, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByPlatform(ctx, "logos", KindLogo, platformKey, platformID, q)
}

func (c *Client) GetGridsByGameID(ctx context.Context, gameID int, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByGame(ctx, "grids", KindGrid, gameID, q)
}

func (c *Client) GetIconsByGameID(ctx context.Context, gameID int, q ImageQuery) ([]ArtworkCandidate, error) {
	return c.imagesByGame(ctx, "icons", KindIcon, gameID, q)
}

// GetSquareGridsByPlatformID lists grids with a 1:1 aspect ratio.
func (c *Client) GetSquareGridsByPlatformID(ctx context.Context, platformKey, platformID string) ([]ArtworkCandidate, error) {
	grids, err := c.GetGridsByPlatformID(ctx, platformKey, platformID, squareGridQuery())
	if err != nil {
		return nil, err
	}
	return FilterSquare(grids), nil
}

// GetSquareIconsByPlatformID lists icons with a 1:1 aspect ratio.
func (c *Client) GetSquareIconsByPlatformID(ctx context.Context, platformKey, platformID string) ([]ArtworkCandidate, error) {
	icons, err := c.GetIconsByPlatformID(ctx, platformKey, platformID, squareIconQuery())
	if err != nil {
		return nil, err
	}
	return FilterSquare(icons), nil
}

func (c *Client) GetSquareGridsByGameID(ctx context.Context, gameID int) ([]ArtworkCandidate, error) {
	grids, err := c.GetGridsByGameID(ctx, gameID, squareGridQuery())
	if err != nil {
		return nil, err
	}
	return FilterSquare(grids), nil
}

func (c *Client) GetSquareIconsByGameID(ctx context.Context, gameID int) ([]ArtworkCandidate, error) {
	icons, err := c.GetIconsByGameID(ctx, gameID, squareIconQuery())
	if err != nil {
		return nil, err
	}
	return FilterSquare(icons), nil
}

func squareGridQuery() ImageQuery {
	return ImageQuery{
		Dimensions: squareGridDimensions,
		Mimes:      []string{"image/png", "image/jpeg", "image/webp"},
	}
}

func squareIconQuery() ImageQuery {
	return ImageQuery{
		Dimensions: squareIconDimensions,
		Mimes:      []string{"image/png"},
	}
}

func (c *Client) imagesByPlatform(ctx context.Context, resource string, kind Kind, platformKey, platformID string, q ImageQuery) ([]ArtworkCandidate, error) {
	if err := validatePlatformArgs(platformKey, platformID); err != nil {
		return nil, err
	}
	if !c.supported(platformKey) {
		return []ArtworkCandidate{}, nil
	}
	return c.images(ctx, resource+"/"+platformKey+"/"+url.PathEscape(platformID), kind, q), nil
}

func (c *Client) imagesByGame(ctx context.Context, resource string, kind Kind, gameID int, q ImageQuery) ([]ArtworkCandidate, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game ID must be positive", ErrInvalidArgument)
	}
	return c.images(ctx, resource+"/game/"+strconv.Itoa(gameID), kind, q), nil
}

func (c *Client) images(ctx context.Context, path string, kind Kind, q ImageQuery) []ArtworkCandidate {
	images, ok := get[[]Image](ctx, c, path, q.values())
	out := make([]ArtworkCandidate, 0, len(images))
	if !ok {
		return out
	}
	for _, img := range images {
		out = append(out, toCandidate(img, kind))
	}
	return out
}

func (c *Client) supported(platformKey string) bool {
	if platformKeys[platformKey] {
		return true
	}
	c.log.Debugf("SteamGridDB has no platform %q", platformKey)
	return false
}

func (q ImageQuery) values() url.Values {
	v := url.Values{}
	add := func(key string, items []string) {
		if len(items) > 0 {
			v.Set(key, strings.Join(items, ","))
		}
	}
	add("dimensions", q.Dimensions)
	add("styles", q.Styles)
	add("mimes", q.Mimes)
	add("types", q.Types)
	return v
}

func validatePlatformArgs(platformKey, platformID string) error {
	if strings.TrimSpace(platformKey) == "" {
		return fmt.Errorf("%w: platform cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(platformID) == "" {
		return fmt.Errorf("%w: platform ID cannot be empty", ErrInvalidArgument)
	}
	return nil
}

// get fetches path and decodes the envelope's data. Any failure is logged
// and reported as ok == false.
func get[T any](ctx context.Context, c *Client, path string, query url.Values) (data T, ok bool) {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	log := c.log.WithField("url", u)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := whttp.SendHTTPRequest(reqCtx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    u,
		Headers: []whttp.WHTTPHeader{
			{Name: "Authorization", Value: "Bearer " + c.apiKey},
			{Name: "Accept", Value: "application/json"},
		},
	}, c.http)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			log.Debug("SteamGridDB API request cancelled")
		case errors.Is(reqCtx.Err(), context.DeadlineExceeded):
			log.Warnf("SteamGridDB API request timed out after %s", c.timeout)
		default:
			log.Warnf("SteamGridDB API exception: %v", err)
		}
		return data, false
	}

	if !res.OK() {
		log.WithField("status", res.StatusCode).Warn("SteamGridDB API error")
		return data, false
	}

	var env envelope[T]
	if err := json.Unmarshal(res.Body, &env); err != nil {
		log.Warnf("SteamGridDB JSON deserialization error: %v", err)
		return data, false
	}
	if !env.Success {
		log.WithField("errors", env.Errors).Debug("SteamGridDB API reported failure")
		return data, false
	}
	return env.Data, true
}
