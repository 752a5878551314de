// Package placeholder protects Ren'Py markup and interpolation inside text
// sent through an external translation step, replacing each occurrence with
// an inert token and restoring the originals afterwards.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mapping stores one protected occurrence and its replacement token.
type Mapping struct {
	Original    string
	Placeholder string
	Index       int
}

type match struct {
	start, end int
	value      string
}

// patterns detect Ren'Py interpolation and text tags.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\[[a-zA-Z_][a-zA-Z0-9_.!]*\]`),      // [player_name], [points!t]
	regexp.MustCompile(`\{/?[a-zA-Z_][^{}]*\}`),             // {b}, {/b}, {color=#fff}, {w=0.5}
	regexp.MustCompile(`%\([a-zA-Z_][a-zA-Z0-9_]*\)[sdrf]`), // %(name)s
	regexp.MustCompile(`%[dsf]`),                            // bare %s, %d
	regexp.MustCompile(`%%`),                                // escaped percent
}

// Protect replaces every markup occurrence with a {{var_N}} token. Returns
// the protected string and the mapping needed to restore it.
func Protect(text string) (string, []Mapping) {
	var all []match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, match{start: loc[0], end: loc[1], value: text[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return text, nil
	}

	// Deterministic order: by position, longest first on ties.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	// Drop overlapping matches, keeping the first.
	var kept []match
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			kept = append(kept, m)
			lastEnd = m.end
		}
	}

	mappings := make([]Mapping, len(kept))
	for i, m := range kept {
		mappings[i] = Mapping{
			Original:    m.value,
			Placeholder: fmt.Sprintf("{{var_%d}}", i+1),
			Index:       i + 1,
		}
	}

	// Replace back-to-front so byte offsets stay valid.
	result := text
	for i := len(kept) - 1; i >= 0; i-- {
		m := kept[i]
		result = result[:m.start] + mappings[i].Placeholder + result[m.end:]
	}

	return result, mappings
}

// Restore replaces {{var_N}} tokens with their original markup.
func Restore(text string, mappings []Mapping) string {
	result := text
	for _, m := range mappings {
		result = strings.Replace(result, m.Placeholder, m.Original, 1)
	}
	return result
}
