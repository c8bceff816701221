// Package poi contains the data model of the extraction pipeline: the
// region of interest, the configured year range and the extracted POI
// records.
package poi

import (
	"fmt"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"
)

// Region is a geographic bounding box in WGS84 lon/lat coordinates.
type Region struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

func (r Region) Validate() error {
	if r.MinLon < -180 || r.MaxLon > 180 {
		return errors.Errorf("longitude outside [-180, 180]: %s", r.BboxArg())
	}
	if r.MinLat < -90 || r.MaxLat > 90 {
		return errors.Errorf("latitude outside [-90, 90]: %s", r.BboxArg())
	}
	if r.MinLon >= r.MaxLon {
		return errors.Errorf("min longitude not below max longitude: %s", r.BboxArg())
	}
	if r.MinLat >= r.MaxLat {
		return errors.Errorf("min latitude not below max latitude: %s", r.BboxArg())
	}
	return nil
}

// BboxArg returns the region as minlon,minlat,maxlon,maxlat, the form
// osmium extract takes with -b.
func (r Region) BboxArg() string {
	return fmt.Sprintf("%v,%v,%v,%v", r.MinLon, r.MinLat, r.MaxLon, r.MaxLat)
}

// YearRange is an inclusive, contiguous range of years.
type YearRange struct {
	From int
	To   int
}

func (yr YearRange) Validate() error {
	if yr.From == 0 || yr.To == 0 {
		return errors.New("missing year range")
	}
	if yr.From > yr.To {
		return errors.Errorf("year range from %d after to %d", yr.From, yr.To)
	}
	if yr.From < 2005 {
		// OSM history starts 2005, nothing to slice before that
		return errors.Errorf("year %d before start of OSM history", yr.From)
	}
	return nil
}

// Years returns all years of the range in ascending order.
func (yr YearRange) Years() []int {
	years := make([]int, 0, yr.To-yr.From+1)
	for y := yr.From; y <= yr.To; y++ {
		years = append(years, y)
	}
	return years
}

// POI is a single point of interest from one year's snapshot.
// Coordinates are WGS84 lon/lat, same as the source snapshot files.
type POI struct {
	ID   int64
	Tags osm.Tags
	Lon  float64
	Lat  float64
	Year int
}

func (p POI) String() string {
	return fmt.Sprintf("POI(%d, %d, %v)", p.ID, p.Year, map[string]string(p.Tags))
}
