package parser

// TextType labels how an extracted string appeared in the script.
type TextType string

const (
	// TypeDialogue is a spoken line, possibly prefixed by a speaker token.
	TypeDialogue TextType = "dialogue"
	// TypeString is a named-value assignment containing a quoted literal.
	TypeString TextType = "string"
)

// Record is one translatable text occurrence extracted from a script file.
type Record struct {
	// ID is derived from (file stem, line, text prefix); stable across
	// re-scans of an unchanged file. Collisions are not detected.
	ID string `json:"id"`
	// File is the source path relative to the scan root.
	File string `json:"file"`
	// Line is the 1-based line number at time of scan.
	Line int `json:"line"`
	// Type is dialogue or string.
	Type TextType `json:"type"`
	// Original is the extracted text, quotes stripped and trimmed.
	Original string `json:"original"`
	// Translated is empty until an external translation step fills it in.
	Translated string `json:"translated"`
	// Context is an advisory annotation (speaker name or var:<name>).
	Context string `json:"context,omitempty"`
}

// QuotedSpan is a double-quoted substring found in a line, with its
// column span (byte offsets of the quote characters, inclusive-exclusive).
type QuotedSpan struct {
	Text  string
	Start int
	End   int
}

// FileResult holds the scan output for a single script file.
type FileResult struct {
	// Path is the absolute path of the scanned file.
	Path string
	// Rel is the path relative to the scan root, as stored in records.
	Rel string
	// Records are the accepted extractions in line order.
	Records []Record
	// RawLines preserves the original content for the annotation pass.
	RawLines []string
	// Newline is the line ending detected in the file, "\r\n" or "\n".
	Newline string
	// TrailingNewline reports whether the content ended with a newline,
	// so a rewrite does not append one that was never there.
	TrailingNewline bool
}
