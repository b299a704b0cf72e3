package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/names"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
	"github.com/sw33tLie/gridsync/pkg/whttp"
)

var errMissingAPIKey = errors.New("SteamGridDB API key not found: set steamgriddb.apikey in the config file or STEAMGRIDDB_API_KEY")

// session holds what a command run shares: one HTTP client and, when an API
// key is configured, one catalog client.
type session struct {
	root    string
	http    *retryablehttp.Client
	catalog *steamgriddb.Client
}

// newSession builds the shared clients. When requireCatalog is false a
// missing API key only disables catalog lookups.
func newSession(cmd *cobra.Command, requireCatalog bool) (*session, error) {
	proxy, _ := cmd.Flags().GetString("proxy")
	timeout := time.Duration(viper.GetInt("steamgriddb.timeout")) * time.Second
	client, err := whttp.NewClient(whttp.ClientOptions{Proxy: proxy, Timeout: timeout})
	if err != nil {
		return nil, err
	}

	s := &session{root: libraryRoot(cmd), http: client}

	apiKey := viper.GetString("steamgriddb.apikey")
	if apiKey == "" {
		if requireCatalog {
			return nil, errMissingAPIKey
		}
		utils.Log.Warn("SteamGridDB API key not found in config: names will come from fallback sources only.")
		return s, nil
	}

	cfg := steamgriddb.DefaultConfig(apiKey)
	cfg.Timeout = timeout
	cfg.HTTPClient = client
	cfg.Log = utils.Log
	s.catalog, err = steamgriddb.New(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) Close() {
	if s.catalog != nil {
		s.catalog.Close()
	}
	whttp.CloseIdleConnections(s.http)
}

// scan reads the library and names every record.
func (s *session) scan(ctx context.Context, concurrency int) ([]*library.GameRecord, error) {
	scanner := library.NewScanner()
	records, err := scanner.Scan(ctx, s.root)
	if err != nil {
		return nil, err
	}

	var catalog names.Catalog
	if s.catalog != nil {
		catalog = s.catalog
	}
	resolver := names.NewResolver(catalog, names.DefaultSources(s.http, utils.Log), names.NewCache(), names.Options{
		Concurrency: concurrency,
		Log:         utils.Log,
	})
	return resolver.ResolveAll(ctx, records), nil
}

func libraryRoot(cmd *cobra.Command) string {
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		return root
	}
	return viper.GetString("library.root")
}

// withLibraryLock runs fn while holding the lock shared by every command
// that writes artwork.
func withLibraryLock(fn func() error) error {
	lock, err := utils.NewLibraryLock("")
	if err != nil {
		return err
	}
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}
