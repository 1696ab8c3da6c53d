package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scour/internal/scan"
	"github.com/standardbeagle/scour/internal/search"
	"github.com/standardbeagle/scour/internal/wire"
	"github.com/standardbeagle/scour/pkg/pathutil"
)

var Version = "0.2.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("scour: ")

	app := &cli.App{
		Name:                   "scour",
		Usage:                  "Project-wide text search",
		Version:                Version,
		UseShortOptionHandling: true,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search a directory tree for a pattern",
				ArgsUsage: "<pattern>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "regex",
						Aliases: []string{"e"},
						Usage:   "Treat the pattern as a regular expression",
					},
					&cli.BoolFlag{
						Name:    "word",
						Aliases: []string{"w"},
						Usage:   "Match whole words only",
					},
					&cli.BoolFlag{
						Name:    "case-sensitive",
						Aliases: []string{"s"},
						Usage:   "Match case exactly",
					},
					&cli.StringSliceFlag{
						Name:  "include",
						Usage: "Only search files matching glob patterns (e.g. --include '**/*.go')",
					},
					&cli.StringSliceFlag{
						Name:  "exclude",
						Usage: "Skip files matching glob patterns (e.g. --exclude 'vendor/**')",
					},
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Directory to search",
						Value:   ".",
					},
					&cli.BoolFlag{
						Name:    "files-with-matches",
						Aliases: []string{"l"},
						Usage:   "Print only the names of matching files",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Detection worker count (0 = number of CPUs)",
					},
					&cli.Int64Flag{
						Name:  "max-file-size",
						Usage: "Skip files larger than this many bytes (0 = no limit)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit results as JSON",
					},
				},
				Action: searchCommand,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: scour search <pattern>")
	}
	pattern := c.Args().First()

	// Going through the wire mapping keeps CLI filter parsing identical to
	// what a remote peer would send: comma-joined, trimmed, empties dropped.
	query, err := search.FromWire(wire.SearchProject{
		Query:          pattern,
		Regex:          c.Bool("regex"),
		WholeWord:      c.Bool("word"),
		CaseSensitive:  c.Bool("case-sensitive"),
		FilesToInclude: strings.Join(c.StringSlice("include"), ","),
		FilesToExclude: strings.Join(c.StringSlice("exclude"), ","),
	})
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	root, err := filepath.Abs(c.String("root"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("resolving root: %v", err), 2)
	}

	scanner := &scan.Scanner{
		Query:       query,
		Workers:     c.Int("workers"),
		DetectOnly:  c.Bool("files-with-matches"),
		MaxFileSize: c.Int64("max-file-size"),
	}

	start := time.Now()
	results, err := scanner.Run(c.Context, root)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	elapsed := time.Since(start)

	if c.Bool("json") {
		output := map[string]interface{}{
			"query":   query.String(),
			"regex":   query.IsRegex(),
			"time_ms": float64(elapsed.Microseconds()) / 1000.0,
			"count":   len(results),
			"results": results,
		}
		return json.NewEncoder(os.Stdout).Encode(output)
	}

	if c.Bool("files-with-matches") {
		for _, r := range results {
			fmt.Println(r.Path)
		}
		return nil
	}

	total := 0
	for _, r := range results {
		content, err := os.ReadFile(pathutil.ToAbsolute(filepath.FromSlash(r.Path), root))
		if err != nil {
			log.Printf("reading %s: %v", r.Path, err)
			continue
		}
		for _, rng := range r.Ranges {
			line := scan.ComputeLineNumber(content, rng.Start)
			col := scan.ComputeColumn(content, rng.Start)
			fmt.Printf("%s:%d:%d:%s\n", r.Path, line, col, scan.ExtractLine(content, rng.Start))
		}
		total += len(r.Ranges)
	}
	fmt.Fprintf(os.Stderr, "%d matches in %d files (%.1fms)\n",
		total, len(results), float64(elapsed.Microseconds())/1000.0)
	return nil
}
