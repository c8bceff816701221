// Package postgis exports extracted POI records into a PostGIS table
// for further analysis outside of the pipeline.
package postgis

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	pq "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/database"
	"github.com/geomlab/osmhist/poi"
)

type PostGIS struct {
	Db *sql.DB
}

func New(conf database.Config) (database.DB, error) {
	params := strings.Replace(conf.ConnectionParams, "postgis", "postgres", 1)
	db, err := sql.Open("postgres", params)
	if err != nil {
		return nil, errors.Wrap(err, "opening PostGIS connection")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to PostGIS")
	}
	return &PostGIS{Db: db}, nil
}

func (pg *PostGIS) Close() error {
	return pg.Db.Close()
}

// ExportPOIs recreates table and inserts all POIs in one transaction.
// Tags are stored as JSONB, the coordinates as a point geometry in
// EPSG:4326.
func (pg *PostGIS) ExportPOIs(table string, pois []poi.POI) error {
	tx, err := pg.Db.Begin()
	if err != nil {
		return errors.Wrap(err, "starting export transaction")
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	name := pq.QuoteIdentifier(table)
	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
		return errors.Wrapf(err, "dropping %s", table)
	}
	createSQL := fmt.Sprintf(
		"CREATE TABLE %s (id BIGINT, tags JSONB, year INT, geometry geometry(POINT, 4326))",
		name)
	if _, err := tx.Exec(createSQL); err != nil {
		return errors.Wrapf(err, "creating %s", table)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (id, tags, year, geometry) VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326))",
		name))
	if err != nil {
		return errors.Wrapf(err, "preparing insert into %s", table)
	}
	defer stmt.Close()

	for _, p := range pois {
		tags, err := json.Marshal(p.Tags)
		if err != nil {
			return errors.Wrapf(err, "encoding tags of %s", p)
		}
		if _, err := stmt.Exec(p.ID, tags, p.Year, p.Lon, p.Lat); err != nil {
			return errors.Wrapf(err, "inserting %s", p)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing export")
	}
	tx = nil
	return nil
}

func init() {
	database.Register("postgis", New)
}
