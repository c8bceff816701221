/*
Package extract runs the history extraction pipeline: regional extract,
per-year snapshots, combined POI query and the output steps.
*/
package extract

import (
	"os"

	"github.com/pkg/errors"

	"github.com/geomlab/osmhist/config"
	"github.com/geomlab/osmhist/database"
	_ "github.com/geomlab/osmhist/database/duck"
	_ "github.com/geomlab/osmhist/database/postgis"
	"github.com/geomlab/osmhist/filter"
	"github.com/geomlab/osmhist/geojson"
	"github.com/geomlab/osmhist/log"
	"github.com/geomlab/osmhist/osmium"
	"github.com/geomlab/osmhist/poi"
	"github.com/geomlab/osmhist/query"
	"github.com/geomlab/osmhist/snapshot"
)

type extractor interface {
	Extract(source string, region poi.Region, dest string) error
}

type slicer interface {
	TimeFilter(extract, timestamp, dest string) error
}

// Run executes the whole pipeline: extract, slices, query, outputs.
func Run(opts config.Options) {
	if opts.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	tool := osmium.New(opts.Osmium)

	step := log.Step("Extracting region")
	extractFile, err := extractRegion(tool, opts)
	if err != nil {
		log.Fatal("[fatal] Extracting region:", err)
	}
	step()

	step = log.Step("Creating year snapshots")
	if err := sliceYears(tool, extractFile, opts.Years.Years(), func(year int) string {
		return snapshot.Path(opts.CacheDir, opts.Name, year)
	}); err != nil {
		log.Fatal("[fatal] Creating year snapshots:", err)
	}
	step()

	queryAndOutput(opts)
}

// Extract executes only the regional extract step.
func Extract(opts config.Options) {
	if opts.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	step := log.Step("Extracting region")
	if _, err := extractRegion(osmium.New(opts.Osmium), opts); err != nil {
		log.Fatal("[fatal] Extracting region:", err)
	}
	step()
}

// Slices executes only the per-year snapshot step. The regional
// extract must already exist.
func Slices(opts config.Options) {
	if opts.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	extractFile := snapshot.ExtractPath(opts.CacheDir, opts.Name)
	if _, err := os.Stat(extractFile); err != nil {
		log.Fatal("[fatal] Missing regional extract, run extract first:", err)
	}
	step := log.Step("Creating year snapshots")
	if err := sliceYears(osmium.New(opts.Osmium), extractFile, opts.Years.Years(), func(year int) string {
		return snapshot.Path(opts.CacheDir, opts.Name, year)
	}); err != nil {
		log.Fatal("[fatal] Creating year snapshots:", err)
	}
	step()
}

// Query executes only the combined query and output steps, from
// existing snapshot files.
func Query(opts config.Options) {
	if opts.Quiet {
		log.SetMinLevel(log.LWarn)
	}
	queryAndOutput(opts)
}

func queryAndOutput(opts config.Options) {
	step := log.Step("Querying POIs")
	pois, err := queryPOIs(opts)
	if err != nil {
		log.Fatal("[fatal] Querying POIs:", err)
	}
	step()
	log.Printf("[info] %d POIs extracted for %d year(s)", len(pois), len(opts.Years.Years()))

	if opts.Out != "" {
		if err := geojson.WriteFile(opts.Out, pois); err != nil {
			log.Fatal("[fatal] Writing GeoJSON:", err)
		}
		log.Printf("[info] wrote %s", opts.Out)
	}
	if opts.PgConnection != "" {
		step := log.Step("Exporting POIs to PostGIS")
		if err := exportPOIs(opts, pois); err != nil {
			log.Fatal("[fatal] Exporting POIs:", err)
		}
		step()
	}
}

// extractRegion cuts the source archive down to the configured region.
// An existing extract is reused unless -overwriteextract is set; the
// extract is the most expensive osmium invocation of the pipeline.
func extractRegion(tool extractor, opts config.Options) (string, error) {
	if err := os.MkdirAll(opts.CacheDir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating cache directory %q", opts.CacheDir)
	}
	dest := snapshot.ExtractPath(opts.CacheDir, opts.Name)
	if _, err := os.Stat(dest); err == nil && !opts.OverwriteExtract {
		log.Printf("[info] reusing existing extract %s", dest)
		return dest, nil
	}
	if err := tool.Extract(opts.Source, opts.Region, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// sliceYears produces one snapshot per year, sequentially, in order.
// The loop fails fast: the first failing year aborts the run, later
// years are not attempted. The returned error names the year and
// carries the tool diagnostic.
func sliceYears(tool slicer, extractFile string, years []int, path func(year int) string) error {
	for _, year := range years {
		dest := path(year)
		if err := tool.TimeFilter(extractFile, snapshot.Timestamp(year), dest); err != nil {
			return errors.Wrapf(err, "snapshot for year %d", year)
		}
		log.Printf("[info] wrote snapshot %s", dest)
	}
	return nil
}

func yearFiles(opts config.Options) []query.YearFile {
	years := opts.Years.Years()
	files := make([]query.YearFile, 0, len(years))
	for _, year := range years {
		files = append(files, query.YearFile{
			Year: year,
			Path: snapshot.Path(opts.CacheDir, opts.Name, year),
		})
	}
	return files
}

func poiFilter(opts config.Options) (filter.Filter, error) {
	if opts.FilterFile == "" {
		return filter.Default(), nil
	}
	return filter.Parse(opts.FilterFile)
}

func queryPOIs(opts config.Options) ([]poi.POI, error) {
	f, err := poiFilter(opts)
	if err != nil {
		return nil, err
	}
	q, args, err := query.Build(yearFiles(opts), f)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(database.Config{ConnectionParams: opts.Connection})
	if err != nil {
		return nil, errors.Wrap(err, "opening analytical database")
	}
	defer db.Close()

	selector, ok := db.(database.POISelector)
	if !ok {
		return nil, errors.Errorf("database %q does not support POI queries",
			database.ConnectionType(opts.Connection))
	}
	return selector.SelectPOIs(q, args)
}

func exportPOIs(opts config.Options, pois []poi.POI) error {
	db, err := database.Open(database.Config{ConnectionParams: opts.PgConnection})
	if err != nil {
		return errors.Wrap(err, "opening export database")
	}
	defer db.Close()

	exporter, ok := db.(database.POIExporter)
	if !ok {
		return errors.Errorf("database %q does not support POI export",
			database.ConnectionType(opts.PgConnection))
	}
	return exporter.ExportPOIs(opts.PgTable, pois)
}
