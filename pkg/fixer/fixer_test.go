package fixer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetSquareGridsByPlatformID(ctx context.Context, platformKey, platformID string) ([]steamgriddb.ArtworkCandidate, error) {
	args := m.Called(ctx, platformKey, platformID)
	c, _ := args.Get(0).([]steamgriddb.ArtworkCandidate)
	return c, args.Error(1)
}

func (m *mockCatalog) GetSquareIconsByPlatformID(ctx context.Context, platformKey, platformID string) ([]steamgriddb.ArtworkCandidate, error) {
	args := m.Called(ctx, platformKey, platformID)
	c, _ := args.Get(0).([]steamgriddb.ArtworkCandidate)
	return c, args.Error(1)
}

type mockApplier struct {
	mock.Mock
}

func (m *mockApplier) ApplyArtwork(ctx context.Context, rec *library.GameRecord, folder, imageURL string) error {
	return m.Called(ctx, rec, folder, imageURL).Error(0)
}

func named(dir, id, name string) *library.GameRecord {
	rec := library.NewGameRecord(dir, id)
	rec.DisplayName = name
	rec.HasCatalogMatch = true
	return rec
}

func TestGridsTakePriorityOverIcons(t *testing.T) {
	catalog := new(mockCatalog)
	applier := new(mockApplier)
	rec := named("steam", "steam:440", "Team Fortress 2")

	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "440").
		Return([]steamgriddb.ArtworkCandidate{{ID: 1, URL: "https://cdn/grid.png", Score: 10, Kind: steamgriddb.KindGrid}}, nil)
	catalog.On("GetSquareIconsByPlatformID", mock.Anything, "steam", "440").
		Return([]steamgriddb.ArtworkCandidate{{ID: 2, URL: "https://cdn/icon.png", Score: 99, Kind: steamgriddb.KindIcon}}, nil)
	applier.On("ApplyArtwork", mock.Anything, rec, "/lib/steam", "https://cdn/grid.png").Return(nil)

	res, err := Run(context.Background(), Config{Catalog: catalog, Sync: applier, Root: "/lib"}, []*library.GameRecord{rec})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Succeeded)
	applier.AssertExpectations(t)
	applier.AssertNotCalled(t, "ApplyArtwork", mock.Anything, mock.Anything, mock.Anything, "https://cdn/icon.png")
	catalog.AssertNotCalled(t, "GetSquareIconsByPlatformID", mock.Anything, mock.Anything, mock.Anything)
}

func TestIconsUsedWhenNoGrids(t *testing.T) {
	catalog := new(mockCatalog)
	applier := new(mockApplier)
	rec := named("gog", "gog:1", "Gwent")

	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "gog", "1").Return([]steamgriddb.ArtworkCandidate{}, nil)
	catalog.On("GetSquareIconsByPlatformID", mock.Anything, "gog", "1").Return([]steamgriddb.ArtworkCandidate{
		{ID: 2, URL: "https://cdn/a.png", Score: 4},
		{ID: 3, URL: "https://cdn/b.png", Score: 8},
		{ID: 4, URL: "https://cdn/c.png", Score: 8},
	}, nil)
	applier.On("ApplyArtwork", mock.Anything, rec, "/lib/gog", "https://cdn/b.png").Return(nil)

	res, err := Run(context.Background(), Config{Catalog: catalog, Sync: applier, Root: "/lib"}, []*library.GameRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	applier.AssertExpectations(t)
}

func TestRunCountsAndIsolatesFailures(t *testing.T) {
	catalog := new(mockCatalog)
	applier := new(mockApplier)

	ok := named("steam", "steam:1", "One")
	failing := named("steam", "steam:2", "Two")
	empty := named("steam", "steam:3", "Three")
	lookupErr := named("steam", "steam:4", "Four")
	unsupported := named("itch", "itch:5", "Five")
	backedUp := named("steam", "steam:6", "Six")
	backedUp.HasBackup = true
	unnamed := library.NewGameRecord("steam", "steam:7")

	grid := func(url string) []steamgriddb.ArtworkCandidate {
		return []steamgriddb.ArtworkCandidate{{URL: url, Score: 1}}
	}
	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "1").Return(grid("u1"), nil)
	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "2").Return(grid("u2"), nil)
	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "3").Return(nil, nil)
	catalog.On("GetSquareIconsByPlatformID", mock.Anything, "steam", "3").Return(nil, nil)
	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "4").Return(nil, steamgriddb.ErrInvalidArgument)
	applier.On("ApplyArtwork", mock.Anything, ok, "/lib/steam", "u1").Return(nil)
	applier.On("ApplyArtwork", mock.Anything, failing, "/lib/steam", "u2").Return(errors.New("disk full"))

	var outcomes []Outcome
	cfg := Config{
		Catalog: catalog,
		Sync:    applier,
		Root:    "/lib",
		OnRecordDone: func(rec *library.GameRecord, outcome Outcome, err error) {
			outcomes = append(outcomes, outcome)
		},
	}
	records := []*library.GameRecord{ok, failing, empty, lookupErr, unsupported, backedUp, unnamed}
	res, err := Run(context.Background(), cfg, records)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Eligible)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 2, res.Errored)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, []Outcome{Succeeded, Errored, Skipped, Errored, Skipped}, outcomes)
	assert.Equal(t, "Fixing library is complete: 1 updated, 2 skipped, 2 errors", res.Summary())
}

func TestRunNoEligibleRecords(t *testing.T) {
	rec := library.NewGameRecord("steam", "steam:1")
	res, err := Run(context.Background(), Config{Catalog: new(mockCatalog), Sync: new(mockApplier)}, []*library.GameRecord{rec})
	require.NoError(t, err)
	assert.Equal(t, NoEligibleMessage, res.Summary())
}

func TestRunStopsWhenCancelled(t *testing.T) {
	catalog := new(mockCatalog)
	applier := new(mockApplier)
	first := named("steam", "steam:1", "One")
	second := named("steam", "steam:2", "Two")

	ctx, cancel := context.WithCancel(context.Background())
	catalog.On("GetSquareGridsByPlatformID", mock.Anything, "steam", "1").
		Return([]steamgriddb.ArtworkCandidate{{URL: "u1"}}, nil)
	applier.On("ApplyArtwork", mock.Anything, first, "/lib/steam", "u1").
		Run(func(mock.Arguments) { cancel() }).Return(nil)

	res, err := Run(ctx, Config{Catalog: catalog, Sync: applier, Root: "/lib"}, []*library.GameRecord{first, second})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Succeeded)
	catalog.AssertNotCalled(t, "GetSquareGridsByPlatformID", mock.Anything, "steam", "2")
}

func TestRunRequiresDependencies(t *testing.T) {
	_, err := Run(context.Background(), Config{}, nil)
	assert.Error(t, err)
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name string
		rec  func() *library.GameRecord
		want bool
	}{
		{"catalog match", func() *library.GameRecord { return named("steam", "steam:1", "A") }, true},
		{"fallback name", func() *library.GameRecord {
			r := library.NewGameRecord("gog", "gog:1")
			r.DisplayName = "Gwent"
			return r
		}, true},
		{"unknown", func() *library.GameRecord { return library.NewGameRecord("gog", "gog:1") }, false},
		{"backed up", func() *library.GameRecord {
			r := named("steam", "steam:1", "A")
			r.HasBackup = true
			return r
		}, false},
	}
	for _, tt := range tests {
		if got := Eligible(tt.rec()); got != tt.want {
			t.Fatalf("%s: Eligible() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSummarySingular(t *testing.T) {
	r := &Result{Eligible: 2, Succeeded: 1, Errored: 1}
	assert.Equal(t, "Fixing library is complete: 1 updated, 0 skipped, 1 error", r.Summary())
}
