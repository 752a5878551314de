package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/LouisLau-art/simple-renpy-translator/internal/filewalker"
	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

// Extractor drives the scan of a whole directory tree.
type Extractor struct {
	scanner *parser.Scanner
	workers int
}

// NewExtractor creates an Extractor using the given filter profile and
// worker count. Files are scanned in parallel; output ordering stays
// deterministic regardless.
func NewExtractor(profile parser.Profile, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		scanner: parser.NewScanner(profile),
		workers: workers,
	}
}

// ExtractResult is the outcome of one extraction run.
type ExtractResult struct {
	// Records are all accepted extractions, ordered by (file, line).
	Records []parser.Record
	// Files holds per-file results in walk order, for the annotation pass.
	Files []*parser.FileResult
	// Skipped counts files that could not be read.
	Skipped int
}

// Run walks root, scans every eligible file, and returns the ordered record
// collection. Unreadable files are skipped with a warning; a missing root is
// a hard stop (filewalker.ErrMissingRoot).
func (e *Extractor) Run(ctx context.Context, root string) (*ExtractResult, error) {
	paths, err := filewalker.Walk(root)
	if err != nil {
		return nil, err
	}

	// Per-index result slots keep the merge deterministic under concurrency.
	results := make([]*parser.FileResult, len(paths))
	errs := make([]error, len(paths))

	jobs := make(chan int, len(paths))
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-jobs:
					if !ok {
						return
					}
					rel, relErr := filepath.Rel(root, paths[idx])
					if relErr != nil {
						errs[idx] = fmt.Errorf("relative path: %w", relErr)
						continue
					}
					results[idx], errs[idx] = e.scanner.ParseFile(paths[idx], filepath.ToSlash(rel))
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &ExtractResult{}
	for i, fr := range results {
		if errs[i] != nil {
			log.Warn().Err(errs[i]).Str("file", paths[i]).Msg("Skipping unreadable file")
			out.Skipped++
			continue
		}
		out.Files = append(out.Files, fr)
		out.Records = append(out.Records, fr.Records...)
	}

	// Walk order is already deterministic, but re-sort so parallel scans and
	// traversal-order changes can never reorder the output.
	sort.SliceStable(out.Records, func(i, j int) bool {
		if out.Records[i].File != out.Records[j].File {
			return out.Records[i].File < out.Records[j].File
		}
		return out.Records[i].Line < out.Records[j].Line
	})

	log.Info().
		Int("files", len(out.Files)).
		Int("skipped", out.Skipped).
		Int("records", len(out.Records)).
		Msg("Extraction complete")

	return out, nil
}
