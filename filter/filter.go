// Package filter configures which snapshot features count as POIs.
package filter

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

var validKinds = map[string]struct{}{
	"node":     {},
	"way":      {},
	"relation": {},
}

// Filter selects features by element kind and a single tag predicate.
// Nodes are the only kind with point geometry; ways and relations are
// accepted for completeness but carry no coordinates in the snapshots.
type Filter struct {
	Kind   string   `yaml:"kind"`
	Tag    string   `yaml:"tag"`
	Values []string `yaml:"values"`
}

// Default selects point features tagged amenity=restaurant.
func Default() Filter {
	return Filter{
		Kind:   "node",
		Tag:    "amenity",
		Values: []string{"restaurant"},
	}
}

func Parse(filename string) (Filter, error) {
	f := Filter{Kind: "node"}
	data, err := os.ReadFile(filename)
	if err != nil {
		return f, errors.Wrapf(err, "reading filter file %q", filename)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, errors.Wrapf(err, "parsing filter file %q", filename)
	}
	if err := f.Validate(); err != nil {
		return f, errors.Wrapf(err, "invalid filter file %q", filename)
	}
	return f, nil
}

func (f Filter) Validate() error {
	if _, ok := validKinds[f.Kind]; !ok {
		return errors.Errorf("unknown element kind %q", f.Kind)
	}
	if f.Tag == "" {
		return errors.New("missing tag key")
	}
	if len(f.Values) == 0 {
		return errors.New("missing tag values")
	}
	for _, v := range f.Values {
		if v == "" {
			return errors.New("empty tag value")
		}
	}
	return nil
}
