package main

import (
	"fmt"
	"os"

	osmhist "github.com/geomlab/osmhist"
	"github.com/geomlab/osmhist/config"
	"github.com/geomlab/osmhist/extract"
	"github.com/geomlab/osmhist/log"
)

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\trun\t\tfull pipeline: extract, slices, query")
	fmt.Println("\textract\t\tcut source archive down to the region")
	fmt.Println("\tslices\t\tcreate per-year snapshots of the extract")
	fmt.Println("\tquery\t\textract POIs from existing snapshots")
	fmt.Println("\tversion")
}

func main() {
	if len(os.Args) <= 1 {
		PrintCmds()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		extract.Run(config.ParseRun(os.Args[2:]))
	case "extract":
		extract.Extract(config.ParseExtract(os.Args[2:]))
	case "slices":
		extract.Slices(config.ParseSlices(os.Args[2:]))
	case "query":
		extract.Query(config.ParseQuery(os.Args[2:]))
	case "version":
		fmt.Println(osmhist.Version)
		os.Exit(0)
	default:
		PrintCmds()
		log.Fatalf("[fatal] invalid command: '%s'", os.Args[1])
	}
	os.Exit(0)
}
