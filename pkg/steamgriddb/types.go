package steamgriddb

// Game is a SteamGridDB game, as returned by search and lookup endpoints.
type Game struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Verified    bool     `json:"verified"`
	ReleaseDate int64    `json:"release_date"`
}

// Author is the uploader of an image.
type Author struct {
	Name    string `json:"name"`
	Steam64 string `json:"steam64"`
	Avatar  string `json:"avatar"`
}

// Image is a grid, icon, hero or logo entry. Every field may be absent.
type Image struct {
	ID       int      `json:"id"`
	Score    int      `json:"score"`
	Style    string   `json:"style"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Nsfw     bool     `json:"nsfw"`
	Humor    bool     `json:"humor"`
	Mime     string   `json:"mime"`
	Language string   `json:"language"`
	URL      string   `json:"url"`
	Thumb    string   `json:"thumb"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
	Author   *Author  `json:"author"`
}

// Kind is the image category an ArtworkCandidate was listed under.
type Kind string

const (
	KindGrid Kind = "grid"
	KindIcon Kind = "icon"
	KindHero Kind = "hero"
	KindLogo Kind = "logo"
)

// ArtworkCandidate is one selectable image.
type ArtworkCandidate struct {
	ID         int
	URL        string
	ThumbURL   string
	Score      int
	Style      string
	AuthorName string
	Kind       Kind
	Width      int
	Height     int
}

// envelope wraps every API response.
type envelope[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors"`
}

const (
	unknownAuthor = "Unknown"
	defaultStyle  = "default"
)

func toCandidate(img Image, kind Kind) ArtworkCandidate {
	c := ArtworkCandidate{
		ID:         img.ID,
		URL:        img.URL,
		ThumbURL:   img.Thumb,
		Score:      img.Score,
		Style:      img.Style,
		AuthorName: unknownAuthor,
		Kind:       kind,
		Width:      img.Width,
		Height:     img.Height,
	}
	if c.ThumbURL == "" {
		c.ThumbURL = c.URL
	}
	if c.Style == "" {
		c.Style = defaultStyle
	}
	if img.Author != nil && img.Author.Name != "" {
		c.AuthorName = img.Author.Name
	}
	return c
}
