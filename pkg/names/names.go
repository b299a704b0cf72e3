// Package names assigns display names to library records: first from the
// artwork catalog, then from per-platform fallback sources.
package names

import (
	"context"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/names/epic"
	"github.com/sw33tLie/gridsync/pkg/names/gog"
	"github.com/sw33tLie/gridsync/pkg/names/ubisoft"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

// Catalog is the primary name lookup.
type Catalog interface {
	GetGameByPlatformID(ctx context.Context, platformKey, platformID string) (*steamgriddb.Game, error)
}

// Source is a platform specific fallback. LookupName returns "" when the
// id is unknown and an error when the source could not be queried.
type Source interface {
	Name() string
	LookupName(ctx context.Context, id string) (string, error)
}

// DefaultSources returns the public fallbacks for GOG, Epic and Ubisoft.
// EA has none.
func DefaultSources(client *retryablehttp.Client, log logrus.FieldLogger) map[library.Platform]Source {
	return map[library.Platform]Source{
		library.GOG:     gog.New(client),
		library.Epic:    epic.New(client),
		library.Ubisoft: ubisoft.New(client, log),
	}
}

// Options tune a Resolver. The zero value is valid.
type Options struct {
	// Concurrency is the number of records resolved at once by ResolveAll.
	// Defaults to 1.
	Concurrency int
	Log         logrus.FieldLogger
}

// Resolver runs the name resolution chain.
type Resolver struct {
	catalog     Catalog
	sources     map[library.Platform]Source
	cache       *Cache
	concurrency int
	log         logrus.FieldLogger
}

// NewResolver builds a resolver. catalog and sources may be nil; a nil
// cache is replaced with a fresh one.
func NewResolver(catalog Catalog, sources map[library.Platform]Source, cache *Cache, opts Options) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	log := opts.Log
	if log == nil {
		log = utils.Log
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Resolver{
		catalog:     catalog,
		sources:     sources,
		cache:       cache,
		concurrency: concurrency,
		log:         log,
	}
}

// Resolve sets DisplayName and HasCatalogMatch on rec. It never fails: a
// record nobody can name keeps UnknownName.
func (r *Resolver) Resolve(ctx context.Context, rec *library.GameRecord) {
	log := r.log.WithFields(logrus.Fields{"platform": rec.Platform.String(), "id": rec.ExternalLookupID})

	if r.catalog != nil && rec.Platform.CatalogKey() != "" {
		game, err := r.catalog.GetGameByPlatformID(ctx, rec.Platform.CatalogKey(), rec.ExternalLookupID)
		if err != nil {
			log.Debugf("Could not fetch game name for %s: %v", rec.CompositeID, err)
		} else if game != nil && game.Name != "" {
			rec.DisplayName = game.Name
			rec.HasCatalogMatch = true
			return
		}
	}

	if name := r.fallback(ctx, rec, log); name != "" {
		rec.DisplayName = name
	}
}

func (r *Resolver) fallback(ctx context.Context, rec *library.GameRecord, log logrus.FieldLogger) string {
	src, ok := r.sources[rec.Platform]
	if !ok || src == nil {
		return ""
	}

	if name, ok := r.cache.Get(rec.Platform, rec.ExternalLookupID); ok {
		return name
	}

	name, err := src.LookupName(ctx, rec.ExternalLookupID)
	if err != nil {
		log.Warnf("Error fetching %s game name: %v", src.Name(), err)
		return ""
	}
	if name == "" {
		log.Debugf("%s has no name for %s", src.Name(), rec.ExternalLookupID)
		return ""
	}
	r.cache.Put(rec.Platform, rec.ExternalLookupID, name)
	return name
}

// ResolveAll resolves every record and returns them in display order.
// It stops early, leaving the remaining records unnamed, when ctx is done.
func (r *Resolver) ResolveAll(ctx context.Context, records []*library.GameRecord) []*library.GameRecord {
	if len(records) == 0 {
		return records
	}

	recordChan := make(chan *library.GameRecord, len(records))
	var wg sync.WaitGroup
	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range recordChan {
				if ctx.Err() != nil {
					continue
				}
				r.Resolve(ctx, rec)
			}
		}()
	}

	for _, rec := range records {
		recordChan <- rec
	}
	close(recordChan)
	wg.Wait()

	library.SortRecords(records)
	return records
}
