// Package snapshot defines the on-disk naming of the regional history
// extract and the per-year snapshot files. The slicer writes and the
// query builder reads through the same functions, so the naming cannot
// diverge between the two.
package snapshot

import (
	"fmt"
	"path/filepath"
)

// Path returns the snapshot file for a year: <dir>/<name>-<year>.osm.pbf.
func Path(dir, name string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d.osm.pbf", name, year))
}

// ExtractPath returns the regional history extract: <dir>/<name>.osh.pbf.
func ExtractPath(dir, name string) string {
	return filepath.Join(dir, name+".osh.pbf")
}

// Timestamp returns the instant a year's snapshot is taken at,
// midnight UTC on January 1st, in the format osmium time-filter expects.
func Timestamp(year int) string {
	return fmt.Sprintf("%d-01-01T00:00:00Z", year)
}
