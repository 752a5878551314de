package filewalker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMissingRoot signals that the scan root directory does not exist.
var ErrMissingRoot = errors.New("scan root directory not found")

// DirBlacklist names directories excluded at every depth: localization
// output, engine internals, cache, and save games.
var DirBlacklist = map[string]bool{
	"tl":    true,
	"renpy": true,
	"cache": true,
	"saved": true,
}

// FilePrefixBlacklist excludes engine-reserved and GUI-definition files.
var FilePrefixBlacklist = []string{"00", "gui.", "gui_"}

// Walk discovers all .rpy files under root in lexicographic traversal order,
// applying the directory and file-name exclusion rules at every depth.
// Hidden and underscore-prefixed directories are skipped as well.
func Walk(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingRoot, root)
		}
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMissingRoot, root)
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if DirBlacklist[name] || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(name, ".rpy") {
			return nil
		}
		for _, prefix := range FilePrefixBlacklist {
			if strings.HasPrefix(name, prefix) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(files)).Str("root", root).Msg("Discovered script files")
	return files, nil
}
