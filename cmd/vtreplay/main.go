// Command vtreplay converts a terminal log (raw byte stream or asciinema v2
// recording) into an HTML document. Argument parsing, job-list loading and
// index-page generation stay out of the core vtreplay package; this command
// is their home.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmarchetti/vtreplay"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	var (
		palette    string
		fileList   bool
		review     bool
		watch      bool
		statsDump  bool
		formatFlag string
	)
	flag.StringVar(&palette, "palette", "MyDracula", "color palette: MyDracula, Dracula, or TangoDark")
	flag.BoolVar(&fileList, "list", false, "infile is a JSON job-list, not a single log")
	flag.BoolVar(&fileList, "l", false, "shorthand for -list")
	flag.BoolVar(&review, "review", false, "render in review mode (shows hidden debug elements)")
	flag.BoolVar(&review, "w", false, "shorthand for -review")
	flag.BoolVar(&watch, "watch", false, "after processing, watch infile's directory (with -list: the job-list file) for changes and reprocess")
	flag.BoolVar(&statsDump, "stats", false, "log parser statistics for each file processed")
	flag.StringVar(&formatFlag, "format", "terminal", "input format for a single file: terminal or asciinema")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	infile := args[0]
	var outfile string
	if len(args) > 1 {
		outfile = args[1]
	}

	if _, ok := vtreplay.Palettes[palette]; !ok {
		fmt.Fprintf(os.Stderr, "unknown palette %q\n", palette)
		os.Exit(2)
	}

	run := func() error {
		if fileList {
			return runJobList(infile, palette, review, statsDump)
		}
		job := Job{
			In:      infile,
			Out:     outfile,
			Format:  formatFlag,
			Palette: palette,
			Review:  review,
		}
		return runJob(job, "", statsDump)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, statusError(err.Error()))
		os.Exit(1)
	}

	if watch {
		dir := infile
		if !fileList {
			dir = filepath.Dir(infile)
		}
		if err := watchAndRerun(dir, run); err != nil {
			fmt.Fprintln(os.Stderr, statusError(err.Error()))
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `vtreplay converts a terminal log file into an HTML document.

Usage:
  vtreplay [options] <infile> [<outfile>]
    <infile>  terminal log, asciinema v2 recording, or (-list) a JSON job-list
    <outfile> HTML file to write. Default is standard out. Ignored with -list.

Options:
`)
	flag.PrintDefaults()
}
