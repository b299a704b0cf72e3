package library

import (
	"strings"
	"time"
)

const (
	// UnknownName is the display name of a record no resolver could name.
	UnknownName = "Unknown"
	// ImageNotFound is stored in ImageFileName when no artwork exists on disk.
	ImageNotFound = "Not found"

	imageExt  = ".png"
	backupExt = ".bak"
)

// GameRecord is one third-party game registered in the Xbox app.
type GameRecord struct {
	CompositeID      string
	StoreSpecificID  string
	ExternalLookupID string
	Platform         Platform
	DirectoryName    string
	DisplayName      string
	AddedTimestampMs int64
	ImageFileName    string
	HasCatalogMatch  bool
	HasBackup        bool
}

// NewGameRecord derives the identifiers of a record from its manifest id.
// The id has the form "<store>:<storeSpecificId>", and Epic entries carry a
// third segment "epic:<namespace>:<itemId>" whose item id is used for
// external lookups.
func NewGameRecord(directory, compositeID string) *GameRecord {
	platform := PlatformFromDirectory(directory)

	storeID := compositeID
	if i := strings.Index(compositeID, ":"); i >= 0 {
		storeID = compositeID[i+1:]
	}

	externalID := storeID
	if platform == Epic {
		if parts := strings.Split(compositeID, ":"); len(parts) >= 3 {
			externalID = parts[2]
		}
	}

	return &GameRecord{
		CompositeID:      compositeID,
		StoreSpecificID:  storeID,
		ExternalLookupID: externalID,
		Platform:         platform,
		DirectoryName:    directory,
		DisplayName:      UnknownName,
		ImageFileName:    ImageNotFound,
	}
}

// AddedAt converts AddedTimestampMs to a time. A zero timestamp yields the zero time.
func (r *GameRecord) AddedAt() time.Time {
	if r.AddedTimestampMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.AddedTimestampMs)
}

// HasName reports whether a resolver produced a display name.
func (r *GameRecord) HasName() bool {
	return r.DisplayName != "" && r.DisplayName != UnknownName
}

// HasImage reports whether artwork was found on disk.
func (r *GameRecord) HasImage() bool {
	return r.ImageFileName != "" && r.ImageFileName != ImageNotFound
}

// Label is the name shown in status messages: the display name when known,
// otherwise the artwork file name.
func (r *GameRecord) Label() string {
	if r.HasName() {
		return r.DisplayName
	}
	return r.ArtworkFileName()
}

// ArtworkFileName is the artwork file name of the record. Records from an
// unmapped directory use the lowercased directory name as prefix, which is
// what the Xbox app writes for them.
func (r *GameRecord) ArtworkFileName() string {
	return r.fileToken() + "_" + strings.ReplaceAll(r.StoreSpecificID, ":", "_") + imageExt
}

// ArtworkBackupName is the backup file name of the record.
func (r *GameRecord) ArtworkBackupName() string {
	return r.fileToken() + "_" + strings.ReplaceAll(r.StoreSpecificID, ":", "_") + backupExt
}

func (r *GameRecord) fileToken() string {
	if r.Platform == Unknown && r.DirectoryName != "" {
		return strings.ToLower(r.DirectoryName)
	}
	return r.Platform.DirectoryToken()
}

// ImageFileName returns the artwork file name for a store id.
func ImageFileName(p Platform, storeSpecificID string) string {
	return fileStem(p, storeSpecificID) + imageExt
}

// BackupFileName returns the backup file name for a store id.
func BackupFileName(p Platform, storeSpecificID string) string {
	return fileStem(p, storeSpecificID) + backupExt
}

func fileStem(p Platform, storeSpecificID string) string {
	return p.DirectoryToken() + "_" + strings.ReplaceAll(storeSpecificID, ":", "_")
}
