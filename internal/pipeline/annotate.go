package pipeline

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/LouisLau-art/simple-renpy-translator/internal/fileio"
	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

var (
	annotateDialoguePattern = regexp.MustCompile(`^\s*[a-zA-Z_][a-zA-Z0-9_]*\s+"`)
	annotateQuotePattern    = regexp.MustCompile(`^\s*"`)
	annotateShowPattern     = regexp.MustCompile(`^\s*show\s+`)
)

// hasAnnotation detects an existing inline id on a line. This is a literal
// substring check: a comment mentioning "id " elsewhere on the line causes a
// false "already annotated" skip. Documented limitation, kept as-is.
func hasAnnotation(line string) bool {
	return strings.Contains(line, "id ")
}

// annotateLine appends an inline identifier to a source line: as a trailing
// directive argument for dialogue and quoted lines, as a trailing comment
// otherwise.
func annotateLine(line, id string) string {
	stripped := strings.TrimRight(line, " \t\r\n")
	switch {
	case annotateDialoguePattern.MatchString(stripped),
		annotateQuotePattern.MatchString(stripped),
		annotateShowPattern.MatchString(stripped):
		return stripped + " id " + id
	default:
		return stripped + " # id " + id
	}
}

// Annotate rewrites scanned source files in place, embedding each record's
// id on its line. It is an explicit opt-in step separate from the scan so
// the scan itself stays side-effect free. Idempotent: lines already carrying
// an annotation are left untouched, and rewrites keep the file's line-ending
// style and final-newline state. Returns the number of files rewritten.
func Annotate(files []*parser.FileResult) (int, error) {
	rewritten := 0

	for _, fr := range files {
		if len(fr.Records) == 0 {
			continue
		}

		lines := make([]string, len(fr.RawLines))
		copy(lines, fr.RawLines)
		modified := false

		for _, rec := range fr.Records {
			idx := rec.Line - 1
			if idx < 0 || idx >= len(lines) {
				continue
			}
			if hasAnnotation(lines[idx]) {
				continue
			}
			lines[idx] = annotateLine(lines[idx], rec.ID)
			modified = true
		}

		if !modified {
			continue
		}

		newline := fr.Newline
		if newline == "" {
			newline = "\n"
		}
		out := strings.Join(lines, newline)
		if fr.TrailingNewline {
			out += newline
		}
		if err := fileio.WriteText(fr.Path, out); err != nil {
			log.Error().Err(err).Str("file", fr.Path).Msg("Failed to write annotated file")
			continue
		}
		rewritten++
	}

	log.Info().Int("files", rewritten).Msg("Annotation pass complete")
	return rewritten, nil
}
