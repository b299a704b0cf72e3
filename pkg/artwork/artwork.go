// Package artwork replaces the local cover art of library records with
// catalog images and restores the originals.
package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"time"

	// Decoders accepted by the image check.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
	"github.com/sw33tLie/gridsync/pkg/whttp"
)

var (
	ErrDownloadFailed = errors.New("artwork download failed")
	ErrInvalidImage   = errors.New("downloaded file is not a supported image")
	ErrBackupNotFound = errors.New("backup not found")
)

// Synchronizer writes artwork into store directories.
type Synchronizer struct {
	Fs     afero.Fs
	Client *retryablehttp.Client
	Log    logrus.FieldLogger
	// Timeout bounds each download. Zero selects whttp.DefaultTimeout.
	Timeout time.Duration
}

// NewSynchronizer returns a synchronizer over the OS filesystem.
func NewSynchronizer(client *retryablehttp.Client) *Synchronizer {
	return &Synchronizer{Fs: afero.NewOsFs(), Client: client, Log: utils.Log}
}

func (s *Synchronizer) fs() afero.Fs {
	if s.Fs == nil {
		return afero.NewOsFs()
	}
	return s.Fs
}

func (s *Synchronizer) log() logrus.FieldLogger {
	if s.Log == nil {
		return utils.Log
	}
	return s.Log
}

// ApplyArtwork downloads imageURL and installs it as the artwork of rec in
// folder, the record's store directory. The first replacement keeps a copy
// of the existing image as a backup; later replacements never touch it.
// Nothing is written when the download fails or the bytes are not an image.
func (s *Synchronizer) ApplyArtwork(ctx context.Context, rec *library.GameRecord, folder, imageURL string) error {
	log := s.log().WithFields(logrus.Fields{"id": rec.CompositeID, "url": imageURL})

	data, err := s.download(ctx, imageURL)
	if err != nil {
		log.Warnf("Artwork download failed: %v", err)
		return err
	}
	if err := checkImage(data); err != nil {
		log.Warn("Downloaded artwork is not an image")
		return err
	}

	fsys := s.fs()
	imageName := rec.ArtworkFileName()
	imagePath := filepath.Join(folder, imageName)
	backupPath := filepath.Join(folder, rec.ArtworkBackupName())

	hasBackup, err := afero.Exists(fsys, backupPath)
	if err != nil {
		return fmt.Errorf("checking backup: %w", err)
	}
	if !hasBackup {
		original, err := afero.ReadFile(fsys, imagePath)
		switch {
		case err == nil:
			if err := afero.WriteFile(fsys, backupPath, original, 0o644); err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
			hasBackup = true
			log.Debug("Backed up original artwork")
		case errors.Is(err, afero.ErrFileNotFound):
		default:
			return fmt.Errorf("reading current artwork: %w", err)
		}
	}

	if err := afero.WriteFile(fsys, imagePath, data, 0o644); err != nil {
		rec.HasBackup = hasBackup
		return fmt.Errorf("writing artwork: %w", err)
	}

	rec.HasBackup = hasBackup
	rec.ImageFileName = imageName
	log.Debug("Artwork applied")
	return nil
}

// RestoreBackup puts the backed up artwork of rec back in place.
func (s *Synchronizer) RestoreBackup(rec *library.GameRecord, folder string) error {
	fsys := s.fs()
	imageName := rec.ArtworkFileName()
	imagePath := filepath.Join(folder, imageName)
	backupPath := filepath.Join(folder, rec.ArtworkBackupName())

	exists, err := afero.Exists(fsys, backupPath)
	if err != nil {
		return fmt.Errorf("checking backup: %w", err)
	}
	if !exists {
		return ErrBackupNotFound
	}

	if err := fsys.Remove(imagePath); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		return fmt.Errorf("removing current artwork: %w", err)
	}
	if err := fsys.Rename(backupPath, imagePath); err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}

	rec.HasBackup = false
	rec.ImageFileName = imageName
	s.log().WithField("id", rec.CompositeID).Debug("Backup restored")
	return nil
}

func (s *Synchronizer) download(ctx context.Context, imageURL string) ([]byte, error) {
	ctx, cancel := whttp.WithTimeout(ctx, s.Timeout)
	defer cancel()

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    imageURL,
	}, s.Client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, res.StatusCode)
	}
	if len(res.Body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrDownloadFailed)
	}
	return res.Body, nil
}

func checkImage(data []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return nil
}

// Best returns the highest scored candidate. Ties go to the earliest one.
func Best(candidates []steamgriddb.ArtworkCandidate) (steamgriddb.ArtworkCandidate, bool) {
	if len(candidates) == 0 {
		return steamgriddb.ArtworkCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}

// Merge lists grids and icons together, highest score first.
func Merge(grids, icons []steamgriddb.ArtworkCandidate) []steamgriddb.ArtworkCandidate {
	out := make([]steamgriddb.ArtworkCandidate, 0, len(grids)+len(icons))
	out = append(out, grids...)
	out = append(out, icons...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
