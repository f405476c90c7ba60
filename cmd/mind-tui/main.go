// Command mind-tui opens a mind tree in the terminal UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/vanderheijden86/mind/internal/cli"
	"github.com/vanderheijden86/mind/pkg/version"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	path := flag.String("path", "", "Open the tree stored in this file")
	cwd := flag.Bool("cwd", false, "Open the tree of the current directory")
	local := flag.Bool("local", false, "Open the local tree file of the current directory")
	noWatch := flag.Bool("no-watch", false, "Do not reload when the tree changes on disk")
	logFile := flag.String("log-file", "", "Write debug logs to this file")
	verbosity := flag.Int("verbose", 0, "Log verbosity (1 errors ... 4 debug)")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: mind-tui [options]")
		fmt.Println("\nBrowse and edit a mind tree in the terminal.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("mind-tui %s\n", version.Version)
		os.Exit(0)
	}

	args := tuiArgs(*path, *cwd, *local, *noWatch, *logFile, *verbosity)
	// Not os.Exit: the deferred profile writes must run.
	if code := cli.Execute(context.Background(), cli.DefaultEnv(), args); code != 0 {
		pprof.StopCPUProfile()
		os.Exit(code)
	}
}

// tuiArgs translates the flags into a "mind tui" command line.
func tuiArgs(path string, cwd, local, noWatch bool, logFile string, verbosity int) []string {
	args := []string{"tui"}
	switch {
	case path != "":
		args = append(args, "--path", path)
	case local:
		args = append(args, "--local")
	case cwd:
		args = append(args, "--cwd")
	}
	if noWatch {
		args = append(args, "--no-watch")
	}
	if logFile != "" {
		args = append(args, "--log-file", logFile)
	}
	if verbosity > 0 {
		args = append(args, "--verbose="+strconv.Itoa(verbosity))
	}
	return args
}
