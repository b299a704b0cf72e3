package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/tidwall/gjson"
)

const (
	manifestExt = ".manifest"
)

// utf8BOM may prefix manifests written by Windows tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	ErrLibraryNotFound = errors.New("library folder not found")
	ErrAccessDenied    = errors.New("access to library folder denied")
)

// Scanner enumerates the store directories of an Xbox app third-party library
// and turns their manifests into game records.
type Scanner struct {
	Fs  afero.Fs
	Log logrus.FieldLogger
}

// NewScanner returns a scanner over the OS filesystem.
func NewScanner() *Scanner {
	return &Scanner{Fs: afero.NewOsFs(), Log: utils.Log}
}

func (s *Scanner) fs() afero.Fs {
	if s.Fs == nil {
		return afero.NewOsFs()
	}
	return s.Fs
}

func (s *Scanner) log() logrus.FieldLogger {
	if s.Log == nil {
		return utils.Log
	}
	return s.Log
}

// Scan reads every store directory under root. Only a missing or unreadable
// root is an error: broken directories and entries are logged and skipped.
// Records come back ordered by display name with unnamed records last.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*GameRecord, error) {
	fsys := s.fs()

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, classifyRootError(root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrLibraryNotFound, root)
	}

	dirs, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, classifyRootError(root, err)
	}

	var records []*GameRecord
	for _, d := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !d.IsDir() {
			continue
		}

		name := d.Name()
		if PlatformFromDirectory(name) == BattleNet {
			// The Xbox app keeps no artwork for Battle.net games.
			s.log().Debugf("Skipping unsupported directory %s", name)
			continue
		}

		dirRecords, err := s.scanDirectory(filepath.Join(root, name), name)
		if err != nil {
			s.log().WithField("directory", name).Warnf("Could not process directory: %v", err)
			continue
		}
		records = append(records, dirRecords...)
	}

	SortRecords(records)
	return records, nil
}

// scanDirectory parses <dir>/<name>.manifest. A missing manifest or one
// without a gameCache object yields no records and no error.
func (s *Scanner) scanDirectory(dirPath, name string) ([]*GameRecord, error) {
	fsys := s.fs()
	manifestPath := filepath.Join(dirPath, name+manifestExt)

	data, err := afero.ReadFile(fsys, manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.log().Debugf("No manifest in %s", name)
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", manifestPath, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", manifestPath)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%s is not a JSON object", manifestPath)
	}

	gameCache := root.Get("gameCache")
	if !gameCache.IsObject() {
		s.log().Debugf("Manifest %s has no gameCache", manifestPath)
		return nil, nil
	}

	var records []*GameRecord
	seen := make(map[string]bool)
	gameCache.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "version" || !value.IsObject() {
			return true
		}

		id := value.Get("id")
		if id.Type != gjson.String || id.String() == "" {
			s.log().Debugf("Skipping %s entry %q without id", name, key.String())
			return true
		}
		if seen[id.String()] {
			s.log().Warnf("Duplicate entry %s in %s", id.String(), manifestPath)
			return true
		}
		seen[id.String()] = true

		rec := NewGameRecord(name, id.String())
		rec.AddedTimestampMs = parseAddedDate(value.Get("addedDate"))

		imageName := rec.ArtworkFileName()
		if s.fileExists(filepath.Join(dirPath, imageName)) {
			rec.ImageFileName = imageName
		}
		rec.HasBackup = s.fileExists(filepath.Join(dirPath, rec.ArtworkBackupName()))

		records = append(records, rec)
		return true
	})

	return records, nil
}

func (s *Scanner) fileExists(path string) bool {
	ok, err := afero.Exists(s.fs(), path)
	if err != nil {
		s.log().Debugf("Could not probe %s: %v", path, err)
		return false
	}
	return ok
}

// parseAddedDate accepts epoch milliseconds as a JSON string or number.
// Anything else yields 0.
func parseAddedDate(v gjson.Result) int64 {
	switch v.Type {
	case gjson.String:
		ms, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return 0
		}
		return ms
	case gjson.Number:
		return v.Int()
	default:
		return 0
	}
}

func classifyRootError(root string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrLibraryNotFound, root)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %s", ErrAccessDenied, root)
	default:
		return fmt.Errorf("reading library folder %s: %w", root, err)
	}
}
