package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LouisLau-art/simple-renpy-translator/internal/fileio"
	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

// ErrNoTranslatedContent signals that injection found zero records with a
// non-empty translation. Nothing is written in that case.
var ErrNoTranslatedContent = errors.New("no translated content to inject")

// Injector regenerates localization overlay files from translated records.
type Injector struct {
	// Now supplies the generation timestamp; replaceable in tests.
	Now func() time.Time
}

// NewInjector creates an Injector using the wall clock.
func NewInjector() *Injector {
	return &Injector{Now: time.Now}
}

// Inject writes overlay files for every record with a non-empty translation,
// mirroring each record's relative path under <root>/tl/<language>/.
// Re-running fully overwrites prior overlays: last write wins, no merging
// with hand-edited files. Returns the number of files generated; a failure
// on one file is reported and does not abort the rest.
func (in *Injector) Inject(records []parser.Record, language, root string) (int, error) {
	var translated []parser.Record
	for _, r := range records {
		if strings.TrimSpace(r.Translated) != "" {
			translated = append(translated, r)
		}
	}
	if len(translated) == 0 {
		return 0, ErrNoTranslatedContent
	}

	byFile := make(map[string][]parser.Record)
	var order []string
	for _, r := range translated {
		if _, seen := byFile[r.File]; !seen {
			order = append(order, r.File)
		}
		byFile[r.File] = append(byFile[r.File], r)
	}
	sort.Strings(order)

	generated := 0
	for _, file := range order {
		group := byFile[file]
		outPath := filepath.Join(root, "tl", language, filepath.FromSlash(file))
		content := in.renderFile(group, language)
		if err := fileio.WriteText(outPath, content); err != nil {
			log.Error().Err(err).Str("file", outPath).Msg("Failed to write overlay file")
			continue
		}
		log.Info().Str("file", outPath).Int("blocks", len(group)).Msg("Generated overlay file")
		generated++
	}

	log.Info().
		Int("files", generated).
		Int("translations", len(translated)).
		Str("language", language).
		Msg("Injection complete")

	return generated, nil
}

// renderFile produces the overlay content for one source file's records.
func (in *Injector) renderFile(records []parser.Record, language string) string {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Line < records[j].Line
	})

	var b strings.Builder
	b.WriteString("# Ren'Py translation file - simple-renpy-translator\n")
	fmt.Fprintf(&b, "# Language: %s\n", language)
	fmt.Fprintf(&b, "# Generated: %s\n", in.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("\n")

	for _, r := range records {
		fmt.Fprintf(&b, "# %s:%d\n", r.File, r.Line)
		fmt.Fprintf(&b, "translate %s %s:\n", language, r.ID)
		fmt.Fprintf(&b, "    %s\n", QuoteText(r.Translated))
		b.WriteString("\n")
	}

	return b.String()
}

// QuoteText escapes translated text for an overlay block: newlines become a
// literal \n; text holding double quotes but no single quote is wrapped in
// single quotes, anything else is double-quoted with inner quotes escaped.
func QuoteText(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	if strings.Contains(text, `"`) && !strings.Contains(text, "'") {
		return "'" + text + "'"
	}
	return `"` + strings.ReplaceAll(text, `"`, `\"`) + `"`
}
