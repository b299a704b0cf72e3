// Package fixer replaces the artwork of every eligible library record with
// the best square image the catalog offers.
package fixer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/artwork"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

// NoEligibleMessage is reported when no record qualifies for a fix.
const NoEligibleMessage = "No eligible artworks to fix (all games either were already modified or have no match in SteamGridDB)"

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Catalog lists square artwork for a store id.
type Catalog interface {
	GetSquareGridsByPlatformID(ctx context.Context, platformKey, platformID string) ([]steamgriddb.ArtworkCandidate, error)
	GetSquareIconsByPlatformID(ctx context.Context, platformKey, platformID string) ([]steamgriddb.ArtworkCandidate, error)
}

// Applier installs an image as the artwork of a record.
type Applier interface {
	ApplyArtwork(ctx context.Context, rec *library.GameRecord, folder, imageURL string) error
}

// Outcome is what happened to one record.
type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Errored
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "updated"
	case Skipped:
		return "skipped"
	default:
		return "error"
	}
}

// Config holds everything Run needs.
type Config struct {
	Catalog Catalog
	Sync    Applier
	// Root is the library folder; each record's artwork lives in
	// Root/<DirectoryName>.
	Root string
	Log  Logger // optional; nil = no logging

	// OnRecordDone is called after each processed record. Nil = no callback.
	OnRecordDone func(rec *library.GameRecord, outcome Outcome, err error)
}

// Result holds the outcome of a run.
type Result struct {
	Eligible  int
	Succeeded int
	Skipped   int
	Errored   int
	Errors    []error // non-fatal, one per errored record
}

// Summary is the status line shown once a run is over.
func (r *Result) Summary() string {
	if r.Eligible == 0 {
		return NoEligibleMessage
	}
	return fmt.Sprintf("Fixing library is complete: %d updated, %d skipped, %s",
		r.Succeeded, r.Skipped, utils.Plural(r.Errored, "error", "errors"))
}

// Eligible reports whether rec should be fixed: it has a name and its
// artwork was never replaced.
func Eligible(rec *library.GameRecord) bool {
	return (rec.HasCatalogMatch || rec.HasName()) && !rec.HasBackup
}

// Run fixes the eligible records one at a time. A failing record is
// counted and the run continues. When ctx is done Run returns the counts
// so far together with ctx.Err().
func Run(ctx context.Context, cfg Config, records []*library.GameRecord) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	if cfg.Catalog == nil || cfg.Sync == nil {
		return nil, fmt.Errorf("fixer: catalog and synchronizer are required")
	}

	eligible := make([]*library.GameRecord, 0, len(records))
	for _, rec := range records {
		if Eligible(rec) {
			eligible = append(eligible, rec)
		}
	}

	result := &Result{Eligible: len(eligible)}
	if len(eligible) == 0 {
		return result, nil
	}
	log.Infof("Fixing library artwork: processing %s...", utils.Plural(len(eligible), "game", "games"))

	for i, rec := range eligible {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		log.Debugf("Processing %s (%d/%d)...", rec.Label(), i+1, len(eligible))

		outcome, err := processOne(ctx, cfg, rec, log)
		switch outcome {
		case Succeeded:
			result.Succeeded++
		case Skipped:
			result.Skipped++
		default:
			result.Errored++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", rec.CompositeID, err))
		}

		if cfg.OnRecordDone != nil {
			cfg.OnRecordDone(rec, outcome, err)
		}
	}

	return result, nil
}

// processOne prefers grids and falls back to icons only when there are no
// grids, whatever their scores.
func processOne(ctx context.Context, cfg Config, rec *library.GameRecord, log Logger) (Outcome, error) {
	platformKey := rec.Platform.CatalogKey()
	if platformKey == "" {
		log.Debugf("Skipping %s: unsupported platform", rec.Label())
		return Skipped, nil
	}

	candidates, err := cfg.Catalog.GetSquareGridsByPlatformID(ctx, platformKey, rec.ExternalLookupID)
	if err != nil {
		log.Warnf("Error processing %s: %v", rec.Label(), err)
		return Errored, err
	}
	if len(candidates) == 0 {
		candidates, err = cfg.Catalog.GetSquareIconsByPlatformID(ctx, platformKey, rec.ExternalLookupID)
		if err != nil {
			log.Warnf("Error processing %s: %v", rec.Label(), err)
			return Errored, err
		}
	}

	best, ok := artwork.Best(candidates)
	if !ok {
		log.Debugf("No artwork found for %s", rec.Label())
		return Skipped, nil
	}

	folder := filepath.Join(cfg.Root, rec.DirectoryName)
	if err := cfg.Sync.ApplyArtwork(ctx, rec, folder, best.URL); err != nil {
		log.Warnf("Error processing %s: %v", rec.Label(), err)
		return Errored, err
	}
	log.Debugf("Artwork for %s updated (%s %d, score %d)", rec.Label(), best.Kind, best.ID, best.Score)
	return Succeeded, nil
}
