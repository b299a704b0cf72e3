package steamgriddb

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Known square buckets requested from the API.
	squareGridDimensions = []string{"512x512", "1024x1024"}
	squareIconDimensions = []string{"128x128", "256x256", "512x512", "1024x1024"}

	dimensionToken = regexp.MustCompile(`(?:^|[^0-9])([0-9]{1,5})x([0-9]{1,5})(?:[^0-9]|$)`)
)

// Dimensions returns the size of a candidate. Sizes reported by the API win;
// otherwise the first WxH token found in a URL path segment is used.
func Dimensions(c ArtworkCandidate) (width, height int, ok bool) {
	if c.Width > 0 && c.Height > 0 {
		return c.Width, c.Height, true
	}
	return dimensionsFromURL(c.URL)
}

func dimensionsFromURL(raw string) (int, int, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, 0, false
	}
	for _, segment := range strings.Split(u.Path, "/") {
		m := dimensionToken.FindStringSubmatch(strings.ToLower(segment))
		if m == nil {
			continue
		}
		w, errW := strconv.Atoi(m[1])
		h, errH := strconv.Atoi(m[2])
		if errW != nil || errH != nil {
			continue
		}
		return w, h, true
	}
	return 0, 0, false
}

// IsSquare reports whether a candidate has a known 1:1 size.
func IsSquare(c ArtworkCandidate) bool {
	w, h, ok := Dimensions(c)
	return ok && w > 0 && w == h
}

// FilterSquare keeps the square candidates, preserving order. It never returns nil.
func FilterSquare(candidates []ArtworkCandidate) []ArtworkCandidate {
	out := make([]ArtworkCandidate, 0, len(candidates))
	for _, c := range candidates {
		if IsSquare(c) {
			out = append(out, c)
		}
	}
	return out
}
