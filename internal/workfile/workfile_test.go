package workfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "translation_work.json")

	records := []parser.Record{
		{
			ID:       "script_5_ab12cd34",
			File:     "script.rpy",
			Line:     5,
			Type:     parser.TypeDialogue,
			Original: "Good morning.",
			Context:  "e",
		},
		{
			ID:         "gui_7_11223344",
			File:       "sub/gui_text.rpy",
			Line:       7,
			Type:       parser.TypeString,
			Original:   "Start game",
			Translated: "开始游戏",
		},
	}

	if err := Save(path, records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("got %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d changed across round trip:\nsaved:  %+v\nloaded: %+v",
				i, records[i], loaded[i])
		}
	}
}

func TestSaveOutputIsReadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "work.json")

	records := []parser.Record{{
		ID:       "a_1_deadbeef",
		File:     "a.rpy",
		Line:     1,
		Type:     parser.TypeDialogue,
		Original: `she said <hi> & "bye"`,
	}}
	if err := Save(path, records); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "\n  ") {
		t.Error("output should be indented")
	}
	if strings.Contains(content, `\u003c`) || !strings.Contains(content, "<hi> &") {
		t.Error("HTML escaping should be disabled")
	}
	if strings.Contains(content, `"context"`) {
		t.Error("empty context field should be omitted")
	}
	if !strings.Contains(content, `"translated": ""`) {
		t.Error("translated must always be present, as an empty string")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("a missing file is not a parse failure")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`[{"id": "x", `), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
