// Package osmium wraps the external osmium command-line tool. All
// argument construction is kept here so the extract and time-filter
// call sites cannot drift apart.
package osmium

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/geomlab/osmhist/poi"
)

// Error is returned for non-zero exits of the tool, with the captured
// stderr attached so failures can be attributed to a single invocation.
type Error struct {
	Args          []string
	Diagnostic    string
	originalError error
}

func (e *Error) Error() string {
	return fmt.Sprintf("osmium %s: %s: %s",
		strings.Join(e.Args, " "), e.originalError, e.Diagnostic)
}

type runFunc func(bin string, args []string) ([]byte, error)

func run(bin string, args []string) ([]byte, error) {
	cmd := exec.Command(bin, args...)
	stderr := bytes.Buffer{}
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

type Tool struct {
	// Bin is the osmium executable, resolved through PATH.
	Bin string
	run runFunc
}

func New(bin string) *Tool {
	if bin == "" {
		bin = "osmium"
	}
	return &Tool{Bin: bin, run: run}
}

// Extract cuts source down to region and writes the result to dest.
// Blocks until osmium is finished. The source archive is not modified.
func (t *Tool) Extract(source string, region poi.Region, dest string) error {
	return t.invoke(extractArgs(source, region, dest))
}

// TimeFilter writes the state of extract as of timestamp to dest,
// overwriting an existing file. Blocks until osmium is finished.
func (t *Tool) TimeFilter(extract, timestamp, dest string) error {
	return t.invoke(timeFilterArgs(extract, timestamp, dest))
}

func (t *Tool) invoke(args []string) error {
	diag, err := t.run(t.Bin, args)
	if err != nil {
		return &Error{
			Args:          args,
			Diagnostic:    strings.TrimSpace(string(diag)),
			originalError: err,
		}
	}
	return nil
}

func extractArgs(source string, region poi.Region, dest string) []string {
	return []string{
		"extract", source,
		"--with-history",
		"-b", region.BboxArg(),
		"-o", dest,
	}
}

func timeFilterArgs(extract, timestamp, dest string) []string {
	return []string{
		"time-filter", extract, timestamp,
		"-o", dest,
		"--overwrite",
	}
}
