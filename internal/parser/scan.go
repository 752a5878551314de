package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/LouisLau-art/simple-renpy-translator/internal/fileio"
	"github.com/LouisLau-art/simple-renpy-translator/internal/textutil"
)

// ignorePatterns match, after leading whitespace only, line shapes that never
// start user-visible prose. Anchored to line start; trailing content after
// the keyword does not matter.
var ignorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*label\s+`),
	regexp.MustCompile(`^\s*jump\s+`),
	regexp.MustCompile(`^\s*call\s+`),
	regexp.MustCompile(`^\s*scene\s+`),
	regexp.MustCompile(`^\s*show\s+`),
	regexp.MustCompile(`^\s*hide\s+`),
	regexp.MustCompile(`^\s*play\s+`),
	regexp.MustCompile(`^\s*stop\s+`),
	regexp.MustCompile(`^\s*with\s+`),
	regexp.MustCompile(`^\s*init\s*:`),
	regexp.MustCompile(`^\s*python\s*:`),
	regexp.MustCompile(`^\s*#`),
	regexp.MustCompile(`^\s*$`),
}

// quotedPattern finds maximal double-quoted substrings with no embedded
// quote. Escaped interior quotes are not handled: a literal \" terminates
// the match early. Known limitation, kept to match engine behavior.
var quotedPattern = regexp.MustCompile(`"([^"]*)"`)

var (
	speakerQuotePattern = regexp.MustCompile(`^\s*[a-zA-Z_][a-zA-Z0-9_]*\s+"`)
	speakerNamePattern  = regexp.MustCompile(`^\s*([a-zA-Z_][a-zA-Z0-9_]*)`)
	varAssignPattern    = regexp.MustCompile(`^\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*=`)
)

// speakerStopWords are leading tokens that are control flow, not characters.
var speakerStopWords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true,
	"with": true, "scene": true, "show": true, "hide": true,
}

// varStopWords are assignment targets that never hold prose worth noting.
var varStopWords = map[string]bool{
	"version": true, "save_name": true, "config": true, "gui": true,
}

// IsEligible reports whether a line may contain extractable text. Lines
// opening directives, comments, and blank lines are skipped wholesale even
// though quoted strings may appear on them as arguments.
func IsEligible(line string) bool {
	for _, p := range ignorePatterns {
		if p.MatchString(line) {
			return false
		}
	}
	return true
}

// ExtractQuoted returns every double-quoted substring in a line with its
// column span.
func ExtractQuoted(line string) []QuotedSpan {
	matches := quotedPattern.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return nil
	}
	spans := make([]QuotedSpan, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, QuotedSpan{
			Text:  line[m[2]:m[3]],
			Start: m[0],
			End:   m[1],
		})
	}
	return spans
}

// Classify labels an accepted candidate as dialogue or string based on the
// shape of its line. Assignments are checked before the bare-quote fallback:
// a named-value line usually closes with its quoted literal, which would
// otherwise read as dialogue.
func Classify(line string) TextType {
	trimmed := strings.TrimSpace(line)
	if speakerQuotePattern.MatchString(trimmed) {
		return TypeDialogue
	}
	if varAssignPattern.MatchString(trimmed) {
		return TypeString
	}
	if strings.HasPrefix(trimmed, `"`) || strings.HasSuffix(trimmed, `"`) {
		return TypeDialogue
	}
	return TypeString
}

// Context derives an advisory annotation for a line: var:<name> for a
// named-value assignment, otherwise the speaker token for dialogue. Empty
// when neither applies. Not used for matching.
func Context(line string) string {
	if strings.Contains(line, "=") && strings.Contains(line, `"`) {
		if m := varAssignPattern.FindStringSubmatch(line); m != nil {
			if !varStopWords[strings.ToLower(m[1])] {
				return "var:" + m[1]
			}
			return ""
		}
	}

	if m := speakerNamePattern.FindStringSubmatch(line); m != nil {
		if !speakerStopWords[strings.ToLower(m[1])] {
			return m[1]
		}
	}

	return ""
}

// MakeID derives the content-addressed identifier for one extraction:
// {stem}_{line}_{first 8 hex chars of md5(stem_line_text[:20])}.
// Pure function of its inputs so re-scanning an unchanged file reproduces
// the same ids.
func MakeID(fileStem string, line int, text string) string {
	content := fmt.Sprintf("%s_%d_%s", fileStem, line, textutil.Prefix(text, 20))
	return fmt.Sprintf("%s_%d_%s", fileStem, line, textutil.Hash(content)[:8])
}

// Scanner extracts translatable records from Ren'Py script files using a
// configured translatability profile.
type Scanner struct {
	profile Profile
}

// NewScanner creates a Scanner with the given filter profile.
func NewScanner(profile Profile) *Scanner {
	return &Scanner{profile: profile}
}

// ParseFile scans a single script file. rel is the path stored in records,
// relative to the scan root.
func (s *Scanner) ParseFile(path, rel string) (*FileResult, error) {
	content, err := fileio.ReadText(path)
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Path:            path,
		Rel:             rel,
		RawLines:        fileio.SplitLines(content),
		Newline:         fileio.DetectNewline(content),
		TrailingNewline: strings.HasSuffix(content, "\n"),
	}

	stem := fileStem(path)

	for i, line := range result.RawLines {
		lineNum := i + 1
		if !IsEligible(line) {
			continue
		}
		for _, span := range ExtractQuoted(line) {
			text := strings.TrimSpace(span.Text)
			if !s.profile.IsTranslatable(text) {
				continue
			}
			result.Records = append(result.Records, Record{
				ID:       MakeID(stem, lineNum, text),
				File:     rel,
				Line:     lineNum,
				Type:     Classify(line),
				Original: text,
				Context:  Context(line),
			})
		}
	}

	return result, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
