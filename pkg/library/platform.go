package library

import "strings"

// Platform identifies the store a game was registered from.
type Platform int

const (
	Unknown Platform = iota
	Steam
	GOG
	Epic
	Ubisoft
	BattleNet
	EA
)

// platformTable maps Xbox app directory names to platforms and their
// SteamGridDB platform keys.
var platformTable = []struct {
	platform   Platform
	directory  string
	catalogKey string
	name       string
}{
	{Steam, "steam", "steam", "Steam"},
	{GOG, "gog", "gog", "GOG"},
	{Epic, "epic", "egs", "Epic"},
	{Ubisoft, "ubi", "uplay", "Ubisoft"},
	{BattleNet, "bnet", "bnet", "BattleNet"},
	{EA, "ea", "origin", "EA"},
}

// PlatformFromDirectory maps a library directory name to its platform.
// The match is case-insensitive; unmapped names yield Unknown.
func PlatformFromDirectory(dir string) Platform {
	dir = strings.ToLower(dir)
	for _, p := range platformTable {
		if p.directory == dir {
			return p.platform
		}
	}
	return Unknown
}

// DirectoryToken is the lowercase directory name the Xbox app uses for the
// platform. It prefixes every artwork file name.
func (p Platform) DirectoryToken() string {
	for _, e := range platformTable {
		if e.platform == p {
			return e.directory
		}
	}
	return "unknown"
}

// CatalogKey returns the SteamGridDB platform key, or "" when the catalog
// has no mapping for the platform.
func (p Platform) CatalogKey() string {
	for _, e := range platformTable {
		if e.platform == p {
			return e.catalogKey
		}
	}
	return ""
}

func (p Platform) String() string {
	for _, e := range platformTable {
		if e.platform == p {
			return e.name
		}
	}
	return "Unknown"
}
