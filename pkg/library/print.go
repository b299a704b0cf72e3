package library

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PrintRecords writes one line per record. Each character of outputFlags
// selects a column:
//
//	n  display name
//	p  platform
//	i  composite id
//	f  image file name
//	b  backup present (yes/no)
//	m  catalog match (yes/no)
//	d  added date (RFC 3339, empty when unknown)
//	r  directory
func PrintRecords(w io.Writer, records []*GameRecord, outputFlags, delimiter string) error {
	for _, rec := range records {
		line, err := createLine(rec, outputFlags, delimiter)
		if err != nil {
			return err
		}
		if len(line) > 0 {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func createLine(rec *GameRecord, outputFlags, delimiter string) (string, error) {
	var line string
	for _, f := range outputFlags {
		switch f {
		case 'n':
			line += rec.DisplayName + delimiter
		case 'p':
			line += rec.Platform.String() + delimiter
		case 'i':
			line += rec.CompositeID + delimiter
		case 'f':
			line += rec.ImageFileName + delimiter
		case 'b':
			line += yesNo(rec.HasBackup) + delimiter
		case 'm':
			line += yesNo(rec.HasCatalogMatch) + delimiter
		case 'd':
			if at := rec.AddedAt(); !at.IsZero() {
				line += at.UTC().Format("2006-01-02T15:04:05Z07:00")
			}
			line += delimiter
		case 'r':
			line += rec.DirectoryName + delimiter
		default:
			return "", fmt.Errorf("invalid print flag %s", strconv.QuoteRune(f))
		}
	}
	return strings.TrimSuffix(line, delimiter), nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
