package parser

import (
	"regexp"
	"strings"

	"github.com/LouisLau-art/simple-renpy-translator/internal/textutil"
)

// A Rule rejects candidate text when its Reject predicate fires. Rules run
// in order with first-match-wins: once one fires, the candidate is out.
type Rule struct {
	Name   string
	Reject func(text string) bool
}

// Profile is a named, ordered rule set deciding translatability. Exposing
// the rules as data lets strictness variants swap in without code changes.
type Profile struct {
	Name  string
	Rules []Rule
}

// IsTranslatable reports whether candidate text is natural-language prose
// worth translating. The text is trimmed of whitespace and surrounding
// quote characters before the rules run.
func (p Profile) IsTranslatable(text string) bool {
	cleaned := strings.Trim(strings.TrimSpace(text), `"'`)
	for _, r := range p.Rules {
		if r.Reject(cleaned) {
			return false
		}
	}
	return true
}

var (
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorPattern  = regexp.MustCompile(`^rgb\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*\)`)
	rgbaColorPattern = regexp.MustCompile(`^rgba\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*,\s*[\d.]+\s*\)`)

	nestedTagPattern = regexp.MustCompile(`^\{[^}]*\}[^}]*\{[^}]*\}`)

	underscoredIdentPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*[-_][a-zA-Z0-9_]*$`)
	constantPattern         = regexp.MustCompile(`^[A-Z]{2,}[0-9]+$`)
	dottedPathPattern       = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+$`)

	bareIdentPattern    = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	lowercaseAlnumWord  = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
	hyphenNoSpacePrefix = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// codeSuffixes mark strings that name files, not prose.
var codeSuffixes = []string{
	".py", ".rpy", ".txt", ".json", ".xml",
	".png", ".jpg", ".jpeg", ".gif", ".webp",
	".ogg", ".mp3", ".wav", ".mp4", ".webm",
	".ttf", ".otf",
}

// mediaExtensions flag file paths when they appear anywhere in the string.
var mediaExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".ogg", ".mp3", ".wav",
	".mp4", ".webm", ".ttf", ".otf", ".pyc",
}

// resourcePrefixes are engine resource roots.
var resourcePrefixes = []string{"images/", "audio/", "game/", "gui/"}

func rejectTooShort(s string) bool {
	return len([]rune(s)) < 2
}

func rejectColorCode(s string) bool {
	return hexColorPattern.MatchString(s) ||
		rgbColorPattern.MatchString(s) ||
		rgbaColorPattern.MatchString(s)
}

func rejectSystemInstruction(s string) bool {
	return strings.HasPrefix(s, "auto voice:") ||
		strings.HasPrefix(s, "auto:") ||
		nestedTagPattern.MatchString(s)
}

func rejectCodeIdentifier(s string) bool {
	if textutil.IsUpperAlnum(s) && !strings.Contains(s, " ") && len([]rune(s)) <= 20 {
		return true
	}
	if underscoredIdentPattern.MatchString(s) ||
		constantPattern.MatchString(s) ||
		dottedPathPattern.MatchString(s) {
		return true
	}
	lower := strings.ToLower(s)
	for _, suffix := range codeSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func rejectScriptMarkup(s string) bool {
	if strings.HasPrefix(s, "$") || strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return true
	}
	return strings.Contains(s, "{")
}

func rejectFilePath(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range mediaExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	for _, prefix := range resourcePrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// rejectBareIdentifier fires on single whitespace-free tokens shaped like a
// code identifier carrying an underscore or hyphen. Plain words, including
// short all-caps ones like "OK", are kept: over-rejecting loses prose
// silently while a stray identifier only pads the translation set.
func rejectBareIdentifier(s string) bool {
	if strings.ContainsAny(s, " \t") {
		return false
	}
	if !strings.ContainsAny(s, "-_") {
		return false
	}
	return bareIdentPattern.MatchString(s) || hyphenNoSpacePrefix.MatchString(s)
}

func rejectNoLetters(s string) bool {
	return !textutil.HasLetter(s)
}

// rejectLowercaseWord fires on single all-lowercase alphanumeric words with
// no sentence punctuation; these are almost always variable names.
func rejectLowercaseWord(s string) bool {
	if strings.ContainsAny(s, " \t") || strings.ContainsAny(s, ",.!?") {
		return false
	}
	return lowercaseAlnumWord.MatchString(s)
}

var defaultRules = []Rule{
	{Name: "too-short", Reject: rejectTooShort},
	{Name: "color-code", Reject: rejectColorCode},
	{Name: "system-instruction", Reject: rejectSystemInstruction},
	{Name: "code-identifier", Reject: rejectCodeIdentifier},
	{Name: "script-markup", Reject: rejectScriptMarkup},
	{Name: "file-path", Reject: rejectFilePath},
	{Name: "bare-identifier", Reject: rejectBareIdentifier},
	{Name: "no-letters", Reject: rejectNoLetters},
}

// ProfileDefault is the lenient rule set.
var ProfileDefault = Profile{Name: "default", Rules: defaultRules}

// ProfileStrict additionally rejects bare lowercase single words.
// Trades recall for precision on GUI-heavy scripts.
var ProfileStrict = Profile{
	Name: "strict",
	Rules: append(append([]Rule{}, defaultRules...),
		Rule{Name: "lowercase-word", Reject: rejectLowercaseWord},
	),
}

var profiles = map[string]Profile{
	ProfileDefault.Name: ProfileDefault,
	ProfileStrict.Name:  ProfileStrict,
}

// ProfileByName looks up a named strictness profile.
func ProfileByName(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}
