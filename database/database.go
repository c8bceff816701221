package database

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/poi"
)

type Config struct {
	ConnectionParams string
}

// DB is an open database handle. It is opened once per run and closed
// on all exit paths; the concrete backends add query or export
// capabilities on top.
type DB interface {
	Close() error
}

// POISelector runs the combined snapshot query and materializes the
// matching POI records.
type POISelector interface {
	SelectPOIs(query string, args []interface{}) ([]poi.POI, error)
}

// POIExporter writes extracted POI records into an external table.
type POIExporter interface {
	ExportPOIs(table string, pois []poi.POI) error
}

var databases map[string]func(Config) (DB, error)

func init() {
	databases = make(map[string]func(Config) (DB, error))
}

func Register(name string, f func(Config) (DB, error)) {
	databases[name] = f
}

func Open(conf Config) (DB, error) {
	newFunc, ok := databases[ConnectionType(conf.ConnectionParams)]
	if !ok {
		return nil, errors.Errorf("unsupported database type: %q", conf.ConnectionParams)
	}
	return newFunc(conf)
}

func ConnectionType(param string) string {
	parts := strings.SplitN(param, ":", 2)
	return parts[0]
}
