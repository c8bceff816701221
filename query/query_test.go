package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/geomlab/osmhist/filter"
)

func togoFiles() []YearFile {
	return []YearFile{
		{2012, "togo-2012.osm.pbf"},
		{2013, "togo-2013.osm.pbf"},
		{2014, "togo-2014.osm.pbf"},
	}
}

func TestBuildOneClausePerYear(t *testing.T) {
	q, args, err := Build(togoFiles(), filter.Default())
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(q, "SELECT id, kind, tags, lat, lon"); n != 3 {
		t.Errorf("expected 3 per-year clauses, got %d in:\n%s", n, q)
	}
	if n := strings.Count(q, "UNION ALL"); n != 2 {
		t.Errorf("expected 2 UNION ALL, got %d in:\n%s", n, q)
	}
	for _, path := range []string{
		"st_readosm('togo-2012.osm.pbf')",
		"st_readosm('togo-2013.osm.pbf')",
		"st_readosm('togo-2014.osm.pbf')",
	} {
		if !strings.Contains(q, path) {
			t.Errorf("missing %s in:\n%s", path, q)
		}
	}
	want := []interface{}{2012, 2013, 2014, "node", "amenity", "restaurant"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildTwoLevelStructure(t *testing.T) {
	q, _, err := Build(togoFiles(), filter.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(q, "WITH snapshots AS (") {
		t.Errorf("missing named table expression:\n%s", q)
	}
	// predicate is written once, against the named expression
	if n := strings.Count(q, "WHERE"); n != 1 {
		t.Errorf("expected one WHERE, got %d in:\n%s", n, q)
	}
	if !strings.Contains(q, "FROM snapshots WHERE kind = ? AND tags[?] IN (?)") {
		t.Errorf("unexpected filter clause:\n%s", q)
	}
}

func TestBuildMultipleValues(t *testing.T) {
	f := filter.Filter{Kind: "node", Tag: "amenity", Values: []string{"restaurant", "cafe", "bar"}}
	q, args, err := Build(togoFiles()[:1], f)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q, "IN (?, ?, ?)") {
		t.Errorf("expected three placeholders:\n%s", q)
	}
	want := []interface{}{2012, "node", "amenity", "restaurant", "cafe", "bar"}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestBuildQuotesPaths(t *testing.T) {
	q, _, err := Build([]YearFile{{2012, "it's-2012.osm.pbf"}}, filter.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q, "st_readosm('it''s-2012.osm.pbf')") {
		t.Errorf("path not escaped:\n%s", q)
	}
}

func TestBuildEmpty(t *testing.T) {
	if _, _, err := Build(nil, filter.Default()); err == nil {
		t.Error("expected error for empty file list")
	}
}

func TestBuildInvalidFilter(t *testing.T) {
	f := filter.Filter{Kind: "node", Tag: "amenity"}
	if _, _, err := Build(togoFiles(), f); err == nil {
		t.Error("expected error for filter without values")
	}
}
