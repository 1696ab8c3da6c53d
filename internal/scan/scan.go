// Package scan drives a compiled search query over a directory tree: it
// enumerates candidate files, filters them through the query's path
// matchers, runs stream detection on a bounded worker pool, and collects
// exact match ranges for the files that hit. The query engine itself never
// touches the filesystem; everything filesystem-shaped lives here.
package scan

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/scour/internal/rope"
	"github.com/standardbeagle/scour/internal/search"
)

// FileResult is one matching file. Ranges is empty in detect-only mode.
type FileResult struct {
	Path   string         `json:"path"`
	Ranges []search.Range `json:"ranges,omitempty"`
}

// Scanner runs one query over a tree. Detection is parallelized per file at
// the scanner's discretion; the shared query is immutable so no
// synchronization is needed around it.
type Scanner struct {
	Query *search.SearchQuery

	// Workers bounds the detection pool. 0 means GOMAXPROCS.
	Workers int

	// DetectOnly reports matching files without collecting ranges.
	DetectOnly bool

	// MaxFileSize skips files larger than this many bytes. 0 means no limit.
	MaxFileSize int64
}

// Run walks root and returns the matching files sorted by path. Files that
// cannot be read are logged and skipped; their errors are not fatal to the
// scan. The context cancels in-flight detection and range collection.
func (s *Scanner) Run(ctx context.Context, root string) ([]FileResult, error) {
	candidates, err := s.collect(root)
	if err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu      sync.Mutex
		results []FileResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			result, err := s.scanFile(ctx, candidate)
			if err != nil {
				return err
			}
			if result != nil {
				mu.Lock()
				results = append(results, *result)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

type candidate struct {
	path string // filesystem path
	rel  string // slash-separated path relative to root, used for filtering
}

func (s *Scanner) collect(root string) ([]candidate, error) {
	var candidates []candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subtree is skipped, but an unreadable root means
			// there is nothing to scan at all.
			if path == root {
				return err
			}
			log.Printf("scan: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if !s.Query.FileMatches(rel) {
			return nil
		}
		if s.MaxFileSize > 0 {
			if info, err := d.Info(); err == nil && info.Size() > s.MaxFileSize {
				return nil
			}
		}
		candidates = append(candidates, candidate{path: path, rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// scanFile returns nil (no error) when the file does not match or cannot be
// read. The only errors it propagates are context cancellations surfaced
// through Search.
func (s *Scanner) scanFile(ctx context.Context, c candidate) (*FileResult, error) {
	file, err := os.Open(c.path)
	if err != nil {
		log.Printf("scan: skipping %s: %v", c.path, err)
		return nil, nil
	}
	matched, err := s.Query.Detect(file)
	file.Close()
	if err != nil {
		log.Printf("scan: skipping %s: %v", c.path, err)
		return nil, nil
	}
	if !matched {
		return nil, nil
	}
	if s.DetectOnly {
		return &FileResult{Path: c.rel}, nil
	}

	content, err := os.ReadFile(c.path)
	if err != nil {
		log.Printf("scan: skipping %s: %v", c.path, err)
		return nil, nil
	}
	ranges, err := s.Query.Search(ctx, rope.New(string(content)), nil)
	if err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		// Detection saw a match but range collection did not: whole-word
		// filtering can reject every raw hit.
		return nil, nil
	}
	return &FileResult{Path: c.rel, Ranges: ranges}, nil
}
