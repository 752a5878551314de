// Package review round-trips extraction records through a tabular text file
// for manual translation editing. The exported table preserves
// (id, type, file, line, original) so edited rows can be matched back to
// records after the external pass.
package review

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
	"github.com/LouisLau-art/simple-renpy-translator/internal/placeholder"
)

const header = "id\ttype\tfile\tline\toriginal\ttranslated"

// Export writes records to a TSV file for manual translation. Markup inside
// the original text is replaced with inert placeholder tokens so editors
// cannot corrupt it; Import restores them.
func Export(records []parser.Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create review file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, header)
	for _, r := range records {
		protected, _ := placeholder.Protect(r.Original)
		fmt.Fprintf(f, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID,
			r.Type,
			r.File,
			r.Line,
			escapeTSV(protected),
			escapeTSV(r.Translated),
		)
	}

	log.Info().Str("path", path).Int("rows", len(records)).Msg("Exported review table")
	return nil
}

// Import reads an edited review table and fills in the translated field of
// matching records. Rows are matched by id first, then by
// (file, line, original) content. Only the translated field is mutated.
// Returns the number of records updated.
func Import(records []parser.Record, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open review file: %w", err)
	}
	defer f.Close()

	byID := make(map[string]*parser.Record, len(records))
	byContent := make(map[string]*parser.Record, len(records))
	for i := range records {
		r := &records[i]
		byID[r.ID] = r
		byContent[contentKey(r.File, r.Line, r.Original)] = r
	}

	updated := 0
	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 && line == header {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) < 6 {
			log.Warn().Int("row", lineNo).Msg("Skipping malformed review row")
			continue
		}

		id := cols[0]
		file := cols[2]
		srcLine := cols[3]
		original := unescapeTSV(cols[4])
		translated := unescapeTSV(cols[5])

		if strings.TrimSpace(translated) == "" {
			continue
		}

		rec := byID[id]
		if rec == nil {
			rec = byContent[file+":"+srcLine+":"+original]
		}
		if rec == nil {
			log.Warn().Str("id", id).Int("row", lineNo).Msg("No matching record for review row")
			continue
		}

		// Restore any placeholder tokens the editor carried over. The
		// mapping is recomputed from the original since Protect is pure.
		_, mappings := placeholder.Protect(rec.Original)
		rec.Translated = placeholder.Restore(translated, mappings)
		updated++
	}
	if err := scanner.Err(); err != nil {
		return updated, fmt.Errorf("scan review file: %w", err)
	}

	log.Info().Str("path", path).Int("updated", updated).Msg("Imported review table")
	return updated, nil
}

func contentKey(file string, line int, original string) string {
	protected, _ := placeholder.Protect(original)
	return fmt.Sprintf("%s:%d:%s", file, line, protected)
}

// escapeTSV replaces tabs and newlines so cell content cannot break rows.
func escapeTSV(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	return s
}

func unescapeTSV(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
