// Package query builds the year-tagged union query over all snapshot
// files. The per-year clauses are collected once into a named table
// expression, the POI predicate is applied once on top of it, so
// neither is repeated per configured year.
package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/filter"
)

// YearFile pairs a year with its snapshot file, as produced by the
// snapshot registry.
type YearFile struct {
	Year int
	Path string
}

// Build returns the combined POI query and its bound arguments: one
// SELECT per year reading that year's file and tagging its rows with
// the year, joined with UNION ALL (duplicate rows across years are
// kept), then filtered by kind and tag predicate. Year and predicate
// values are bound parameters. File paths cannot be bound, DuckDB
// table functions take constant arguments only, so they are escaped
// string literals.
func Build(files []YearFile, f filter.Filter) (string, []interface{}, error) {
	if len(files) == 0 {
		return "", nil, errors.New("no snapshot files to query")
	}
	if err := f.Validate(); err != nil {
		return "", nil, errors.Wrap(err, "invalid filter")
	}

	var args []interface{}
	clauses := make([]string, 0, len(files))
	for _, yf := range files {
		clauses = append(clauses, fmt.Sprintf(
			"SELECT id, kind, tags, lat, lon, ?::INT AS year FROM st_readosm(%s)",
			quoteLiteral(yf.Path)))
		args = append(args, yf.Year)
	}

	placeholders := strings.Repeat(", ?", len(f.Values))[2:]
	q := "WITH snapshots AS (\n    " +
		strings.Join(clauses, "\n    UNION ALL\n    ") +
		"\n)\nSELECT id, tags, lat, lon, year FROM snapshots WHERE kind = ? AND tags[?] IN (" +
		placeholders + ")"

	args = append(args, f.Kind, f.Tag)
	for _, v := range f.Values {
		args = append(args, v)
	}
	return q, args, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
