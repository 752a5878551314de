package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadTextUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf8.rpy")
	content := "label start:\n    e \"早上好。\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != content {
		t.Errorf("got %q, want %q", got, content)
	}
}

func TestReadTextGBKFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gbk.rpy")
	// "你好" encoded as GBK; not valid UTF-8.
	gbk := []byte{0xC4, 0xE3, 0xBA, 0xC3}
	if err := os.WriteFile(path, gbk, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "你好" {
		t.Errorf("got %q, want %q", got, "你好")
	}
}

func TestReadTextUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.rpy")
	// A GBK lead byte with an invalid trail defeats every fallback.
	if err := os.WriteFile(path, []byte{0x81, 0x30, 0x81}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ReadText(path)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestReadTextMissingFile(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "absent.rpy"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.Is(err, ErrDecode) {
		t.Error("a missing file is not a decode failure")
	}
}

func TestWriteTextCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tl", "schinese", "script.rpy")
	if err := WriteText(path, "translate schinese x:\n"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "translate schinese x:\n" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDetectNewline(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"LF", "one\ntwo\n", "\n"},
		{"CRLF", "one\r\ntwo\r\n", "\r\n"},
		{"Mixed prefers CRLF", "one\r\ntwo\n", "\r\n"},
		{"No newline", "one", "\n"},
		{"Empty", "", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectNewline(tt.content); got != tt.want {
				t.Errorf("DetectNewline(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"Empty", "", nil},
		{"Single line no newline", "one", []string{"one"}},
		{"Trailing newline", "one\ntwo\n", []string{"one", "two"}},
		{"CRLF endings", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"Blank line preserved", "one\n\ntwo\n", []string{"one", "", "two"}},
		{"Mixed endings", "one\r\ntwo\nthree", []string{"one", "two", "three"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitLines(tt.content); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
