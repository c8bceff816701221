package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/poi"
)

// Config is the optional JSON configuration file. Command line flags
// take precedence over values from the file.
type Config struct {
	Source     string `json:"source"`
	CacheDir   string `json:"cachedir"`
	Name       string `json:"name"`
	Bbox       string `json:"bbox"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	Connection string `json:"connection"`
	Filter     string `json:"filter"`
	Osmium     string `json:"osmium"`
}

const defaultCacheDir = "/tmp/osmhist"
const defaultConnection = "duckdb:"

type Options struct {
	Source           string
	CacheDir         string
	Name             string
	Bbox             string
	From             int
	To               int
	Connection       string
	FilterFile       string
	Osmium           string
	Out              string
	PgConnection     string
	PgTable          string
	OverwriteExtract bool
	Quiet            bool
	ConfigFile       string

	Region poi.Region
	Years  poi.YearRange
}

var RunFlags = flag.NewFlagSet("run", flag.ExitOnError)
var ExtractFlags = flag.NewFlagSet("extract", flag.ExitOnError)
var SlicesFlags = flag.NewFlagSet("slices", flag.ExitOnError)
var QueryFlags = flag.NewFlagSet("query", flag.ExitOnError)

var opts = Options{}

func addBaseFlags(flags *flag.FlagSet) {
	flags.StringVar(&opts.CacheDir, "cachedir", defaultCacheDir, "directory for extract and snapshot files")
	flags.StringVar(&opts.Name, "name", "", "name of the extract, used as file prefix")
	flags.StringVar(&opts.Osmium, "osmium", "", "osmium binary (default: osmium from PATH)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config (json)")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
}

func addYearFlags(flags *flag.FlagSet) {
	flags.IntVar(&opts.From, "from", 0, "first year to snapshot")
	flags.IntVar(&opts.To, "to", 0, "last year to snapshot")
}

func addQueryFlags(flags *flag.FlagSet) {
	flags.StringVar(&opts.Connection, "connection", defaultConnection, "analytical database, e.g. duckdb:analysis.db")
	flags.StringVar(&opts.FilterFile, "filter", "", "POI filter file (yaml), default: amenity=restaurant nodes")
	flags.StringVar(&opts.Out, "out", "", "write POIs as GeoJSON to file")
	flags.StringVar(&opts.PgConnection, "pg-connection", "", "export POIs to PostGIS, e.g. postgis://user@host/db")
	flags.StringVar(&opts.PgTable, "pg-table", "pois", "PostGIS table for exported POIs")
}

func init() {
	RunFlags.Usage = func() { Usage(RunFlags) }
	ExtractFlags.Usage = func() { Usage(ExtractFlags) }
	SlicesFlags.Usage = func() { Usage(SlicesFlags) }
	QueryFlags.Usage = func() { Usage(QueryFlags) }

	for _, flags := range []*flag.FlagSet{RunFlags, ExtractFlags, SlicesFlags, QueryFlags} {
		addBaseFlags(flags)
	}
	for _, flags := range []*flag.FlagSet{RunFlags, SlicesFlags, QueryFlags} {
		addYearFlags(flags)
	}
	for _, flags := range []*flag.FlagSet{RunFlags, QueryFlags} {
		addQueryFlags(flags)
	}
	for _, flags := range []*flag.FlagSet{RunFlags, ExtractFlags} {
		flags.StringVar(&opts.Source, "source", "", "source history archive (.osh.pbf)")
		flags.StringVar(&opts.Bbox, "bbox", "", "region of interest: minlon,minlat,maxlon,maxlat")
	}
	RunFlags.BoolVar(&opts.OverwriteExtract, "overwriteextract", false, "recreate regional extract even if it exists")
}

func Usage(flags *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: %s %s [args]\n\n", os.Args[0], flags.Name())
	flags.PrintDefaults()
	os.Exit(2)
}

func (o *Options) updateFromConfig() error {
	conf := &Config{
		CacheDir: defaultCacheDir,
	}

	if o.ConfigFile != "" {
		f, err := os.Open(o.ConfigFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&conf); err != nil {
			return errors.Wrapf(err, "parsing config %q", o.ConfigFile)
		}
	}

	if o.Source == "" {
		o.Source = conf.Source
	}
	if o.CacheDir == defaultCacheDir && conf.CacheDir != "" {
		o.CacheDir = conf.CacheDir
	}
	if o.Name == "" {
		o.Name = conf.Name
	}
	if o.Bbox == "" {
		o.Bbox = conf.Bbox
	}
	if o.From == 0 {
		o.From = conf.From
	}
	if o.To == 0 {
		o.To = conf.To
	}
	if o.Connection == defaultConnection && conf.Connection != "" {
		o.Connection = conf.Connection
	}
	if o.FilterFile == "" {
		o.FilterFile = conf.Filter
	}
	if o.Osmium == "" {
		o.Osmium = conf.Osmium
	}
	return nil
}

func (o *Options) checkBase() []error {
	errs := []error{}
	if o.Name == "" {
		errs = append(errs, errors.New("missing name"))
	}
	return errs
}

func (o *Options) checkExtract() []error {
	errs := []error{}
	if o.Source == "" {
		errs = append(errs, errors.New("missing source"))
	}
	region, err := ParseBbox(o.Bbox)
	if err != nil {
		errs = append(errs, err)
	} else if err := region.Validate(); err != nil {
		errs = append(errs, err)
	} else {
		o.Region = region
	}
	return errs
}

func (o *Options) checkYears() []error {
	errs := []error{}
	years := poi.YearRange{From: o.From, To: o.To}
	if err := years.Validate(); err != nil {
		errs = append(errs, err)
	} else {
		o.Years = years
	}
	return errs
}

// ParseBbox parses "minlon,minlat,maxlon,maxlat".
func ParseBbox(s string) (poi.Region, error) {
	if s == "" {
		return poi.Region{}, errors.New("missing bbox")
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return poi.Region{}, errors.Errorf("bbox %q not minlon,minlat,maxlon,maxlat", s)
	}
	coords := [4]float64{}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return poi.Region{}, errors.Errorf("invalid bbox coordinate %q in %q", part, s)
		}
		coords[i] = f
	}
	return poi.Region{MinLon: coords[0], MinLat: coords[1], MaxLon: coords[2], MaxLat: coords[3]}, nil
}

func parse(flags *flag.FlagSet, args []string, checks ...func() []error) Options {
	if len(args) == 0 {
		Usage(flags)
	}
	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := opts.updateFromConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	errs := []error{}
	for _, check := range checks {
		errs = append(errs, check()...)
	}
	if len(errs) != 0 {
		reportErrors(errs)
		Usage(flags)
	}
	return opts
}

func ParseRun(args []string) Options {
	return parse(RunFlags, args, opts.checkBase, opts.checkExtract, opts.checkYears)
}

func ParseExtract(args []string) Options {
	return parse(ExtractFlags, args, opts.checkBase, opts.checkExtract)
}

func ParseSlices(args []string) Options {
	return parse(SlicesFlags, args, opts.checkBase, opts.checkYears)
}

func ParseQuery(args []string) Options {
	return parse(QueryFlags, args, opts.checkBase, opts.checkYears)
}

func reportErrors(errs []error) {
	fmt.Println("errors in config/options:")
	for _, err := range errs {
		fmt.Printf("\t%s\n", err)
	}
	os.Exit(1)
}
