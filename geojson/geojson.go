// Package geojson writes extracted POIs as a GeoJSON
// FeatureCollection. Coordinates are lon/lat WGS84, the coordinate
// reference system GeoJSON prescribes.
package geojson

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/poi"
)

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type feature struct {
	Type       string                 `json:"type"`
	Geometry   geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func Write(w io.Writer, pois []poi.POI) error {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]feature, 0, len(pois)),
	}
	for _, p := range pois {
		props := make(map[string]interface{}, len(p.Tags)+2)
		for k, v := range p.Tags {
			props[k] = v
		}
		props["osm_id"] = p.ID
		props["year"] = p.Year
		fc.Features = append(fc.Features, feature{
			Type:       "Feature",
			Geometry:   geometry{Type: "Point", Coordinates: [2]float64{p.Lon, p.Lat}},
			Properties: props,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(fc), "encoding FeatureCollection")
}

func WriteFile(filename string, pois []poi.POI) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating %q", filename)
	}
	if err := Write(f, pois); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "writing %q", filename)
}
