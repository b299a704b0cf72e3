package library

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortRecords orders records by display name, placing unnamed records last.
// Equal names keep their discovery order.
func SortRecords(records []*GameRecord) {
	c := collate.New(language.English, collate.Loose)
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.HasName() != b.HasName() {
			return a.HasName()
		}
		return c.CompareString(a.DisplayName, b.DisplayName) < 0
	})
}
