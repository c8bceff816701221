package osmium

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/geomlab/osmhist/poi"
)

type call struct {
	bin  string
	args []string
}

func recordingTool(fail error, diag string) (*Tool, *[]call) {
	calls := &[]call{}
	tool := New("")
	tool.run = func(bin string, args []string) ([]byte, error) {
		*calls = append(*calls, call{bin, args})
		return []byte(diag), fail
	}
	return tool, calls
}

func TestExtractArgs(t *testing.T) {
	tool, calls := recordingTool(nil, "")
	region := poi.Region{MinLon: 0.9, MinLat: 5.8, MaxLon: 1.8, MaxLat: 11.2}
	if err := tool.Extract("/data/africa.osh.pbf", region, "/data/togo.osh.pbf"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"extract", "/data/africa.osh.pbf",
		"--with-history",
		"-b", "0.9,5.8,1.8,11.2",
		"-o", "/data/togo.osh.pbf",
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(*calls))
	}
	if (*calls)[0].bin != "osmium" {
		t.Errorf("unexpected binary %q", (*calls)[0].bin)
	}
	if !reflect.DeepEqual((*calls)[0].args, want) {
		t.Errorf("args\ngot  %v\nwant %v", (*calls)[0].args, want)
	}
}

func TestTimeFilterArgs(t *testing.T) {
	tool, calls := recordingTool(nil, "")
	if err := tool.TimeFilter("/data/togo.osh.pbf", "2020-01-01T00:00:00Z", "/data/togo-2020.osm.pbf"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"time-filter", "/data/togo.osh.pbf", "2020-01-01T00:00:00Z",
		"-o", "/data/togo-2020.osm.pbf",
		"--overwrite",
	}
	if !reflect.DeepEqual((*calls)[0].args, want) {
		t.Errorf("args\ngot  %v\nwant %v", (*calls)[0].args, want)
	}
}

func TestDiagnosticAttached(t *testing.T) {
	tool, _ := recordingTool(errors.New("exit status 1"), "Open failed: no such file\n")
	err := tool.TimeFilter("missing.osh.pbf", "2012-01-01T00:00:00Z", "out.osm.pbf")
	if err == nil {
		t.Fatal("expected error")
	}
	oerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if oerr.Diagnostic != "Open failed: no such file" {
		t.Errorf("unexpected diagnostic %q", oerr.Diagnostic)
	}
	if !strings.Contains(err.Error(), "no such file") {
		t.Errorf("diagnostic missing from error text: %s", err)
	}
}

func TestCustomBinary(t *testing.T) {
	tool := New("/opt/osmium/bin/osmium")
	var bin string
	tool.run = func(b string, args []string) ([]byte, error) {
		bin = b
		return nil, nil
	}
	if err := tool.Extract("a", poi.Region{MinLon: 0, MinLat: 0, MaxLon: 1, MaxLat: 1}, "b"); err != nil {
		t.Fatal(err)
	}
	if bin != "/opt/osmium/bin/osmium" {
		t.Errorf("unexpected binary %q", bin)
	}
}
