package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrDecode signals that a file could not be decoded with any known encoding.
var ErrDecode = errors.New("file not decodable in any known encoding")

// fallbackEncodings lists the legacy encodings tried, in order, after UTF-8.
var fallbackEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	japanese.ShiftJIS,
	charmap.Windows1252,
}

// ReadText reads a text file, trying UTF-8 first and then each legacy
// encoding in fixed order. The first clean decode wins; a decode producing
// replacement runes counts as a failure and the next encoding is tried.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("%w: %s", ErrDecode, path)
}

// WriteText writes UTF-8 content to a file, creating parent directories.
func WriteText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// DetectNewline reports the line ending used by content, defaulting to "\n".
func DetectNewline(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// SplitLines splits file content into lines, tolerating CRLF endings. The
// final newline does not produce a trailing empty line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	stripped := content
	if stripped[len(stripped)-1] == '\n' {
		stripped = stripped[:len(stripped)-1]
	}
	lines := make([]string, 0, 64)
	start := 0
	for i := 0; i < len(stripped); i++ {
		if stripped[i] == '\n' {
			line := stripped[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	line := stripped[start:]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	lines = append(lines, line)
	return lines
}
