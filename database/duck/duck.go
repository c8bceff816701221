// Package duck queries snapshot files through an embedded DuckDB
// database. The spatial extension provides st_readosm for reading
// .osm.pbf files.
package duck

import (
	"database/sql"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"
	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/database"
	"github.com/geomlab/osmhist/poi"
)

type DuckDB struct {
	Db *sql.DB
}

// New opens the database and loads the spatial extension. Use
// "duckdb:" for an in-memory database, "duckdb:/path/to/file.db" for a
// persistent one.
func New(conf database.Config) (database.DB, error) {
	path := strings.TrimPrefix(conf.ConnectionParams, "duckdb:")
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening DuckDB")
	}
	for _, q := range []string{"INSTALL spatial", "LOAD spatial"} {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "loading spatial extension (%s)", q)
		}
	}
	return &DuckDB{Db: db}, nil
}

func (d *DuckDB) Close() error {
	return d.Db.Close()
}

// SelectPOIs runs the combined snapshot query and materializes all
// matching rows. A missing snapshot file fails the whole query; the
// engine error names the file and is passed on untouched.
func (d *DuckDB) SelectPOIs(query string, args []interface{}) ([]poi.POI, error) {
	rows, err := d.Db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []poi.POI
	for rows.Next() {
		var p poi.POI
		var tags duckdb.Map
		if err := rows.Scan(&p.ID, &tags, &p.Lat, &p.Lon, &p.Year); err != nil {
			return nil, errors.Wrap(err, "scanning POI row")
		}
		p.Tags = tagsFromMap(tags)
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pois, nil
}

func tagsFromMap(m map[any]any) osm.Tags {
	tags := make(osm.Tags, len(m))
	for k, v := range m {
		key, ok := k.(string)
		if !ok {
			continue
		}
		value, ok := v.(string)
		if !ok {
			continue
		}
		tags[key] = value
	}
	return tags
}

func init() {
	database.Register("duckdb", New)
}
