package store

import (
	"path/filepath"
	"testing"

	"github.com/LouisLau-art/simple-renpy-translator/internal/parser"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetOrCreateProject(t *testing.T) {
	s := openTestStore(t)
	gameDir := t.TempDir()

	p, err := s.GetOrCreateProject(gameDir, "mygame")
	if err != nil {
		t.Fatalf("GetOrCreateProject: %v", err)
	}
	if p.ID == 0 || p.Name != "mygame" {
		t.Errorf("unexpected project: %+v", p)
	}

	again, err := s.GetOrCreateProject(gameDir, "othername")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID || again.Name != "mygame" {
		t.Errorf("same path must return the existing project: %+v", again)
	}

	projects, err := s.ListProjects()
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Errorf("got %d projects, want 1", len(projects))
	}
}

func TestGetOrCreateProjectDefaultName(t *testing.T) {
	s := openTestStore(t)
	gameDir := t.TempDir()

	p, err := s.GetOrCreateProject(gameDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != filepath.Base(gameDir) {
		t.Errorf("Name = %q, want directory base %q", p.Name, filepath.Base(gameDir))
	}
}

func TestFindProject(t *testing.T) {
	s := openTestStore(t)
	gameDir := t.TempDir()
	created, err := s.GetOrCreateProject(gameDir, "findme")
	if err != nil {
		t.Fatal(err)
	}

	byName, ok, err := s.FindProject("findme")
	if err != nil || !ok {
		t.Fatalf("lookup by name: ok=%v err=%v", ok, err)
	}
	if byName.ID != created.ID {
		t.Errorf("by name got ID %d, want %d", byName.ID, created.ID)
	}

	byPath, ok, err := s.FindProject(gameDir)
	if err != nil || !ok {
		t.Fatalf("lookup by path: ok=%v err=%v", ok, err)
	}
	if byPath.ID != created.ID {
		t.Errorf("by path got ID %d, want %d", byPath.ID, created.ID)
	}

	_, ok, err = s.FindProject("no-such-project")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unknown name should not match")
	}
}

func TestSaveLoadScan(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetOrCreateProject(t.TempDir(), "game")
	if err != nil {
		t.Fatal(err)
	}

	records := []parser.Record{
		{ID: "a_1_11111111", File: "a.rpy", Line: 1, Type: parser.TypeDialogue, Original: "Hi", Translated: "嗨"},
		{ID: "a_2_22222222", File: "a.rpy", Line: 2, Type: parser.TypeString, Original: "Start"},
		{ID: "b_4_33333333", File: "b.rpy", Line: 4, Type: parser.TypeDialogue, Original: "Bye", Context: "e"},
	}

	stats, err := s.SaveScan(p.ID, "schinese", records)
	if err != nil {
		t.Fatalf("SaveScan: %v", err)
	}
	if stats.Total != 3 || stats.Dialogue != 2 || stats.Strings != 1 || stats.Translated != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	loaded, ok, err := s.LoadScan(p.ID, "schinese")
	if err != nil || !ok {
		t.Fatalf("LoadScan: ok=%v err=%v", ok, err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("got %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d changed across save/load:\nsaved:  %+v\nloaded: %+v",
				i, records[i], loaded[i])
		}
	}
}

func TestSaveScanReplacesWholeSet(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetOrCreateProject(t.TempDir(), "game")
	if err != nil {
		t.Fatal(err)
	}

	first := []parser.Record{
		{ID: "a_1_11111111", File: "a.rpy", Line: 1, Type: parser.TypeDialogue, Original: "Old"},
		{ID: "a_2_22222222", File: "a.rpy", Line: 2, Type: parser.TypeDialogue, Original: "Gone"},
	}
	if _, err := s.SaveScan(p.ID, "schinese", first); err != nil {
		t.Fatal(err)
	}

	second := []parser.Record{
		{ID: "a_1_44444444", File: "a.rpy", Line: 1, Type: parser.TypeDialogue, Original: "New", Translated: "新"},
	}
	if _, err := s.SaveScan(p.ID, "schinese", second); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := s.LoadScan(p.ID, "schinese")
	if err != nil || !ok {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Original != "New" {
		t.Errorf("re-scan must replace the cached set wholesale: %+v", loaded)
	}

	stats, ok, err := s.Stats(p.ID, "schinese")
	if err != nil || !ok {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.Translated != 1 || stats.CompletionRate != 100 {
		t.Errorf("unexpected stats after replace: %+v", stats)
	}
}

func TestStatsMissingScan(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetOrCreateProject(t.TempDir(), "game")
	if err != nil {
		t.Fatal(err)
	}

	_, ok, err := s.Stats(p.ID, "french")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("no scan saved, Stats should report absence")
	}

	_, ok, err = s.LoadScan(p.ID, "french")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("no scan saved, LoadScan should report absence")
	}
}

func TestLanguages(t *testing.T) {
	s := openTestStore(t)
	p, err := s.GetOrCreateProject(t.TempDir(), "game")
	if err != nil {
		t.Fatal(err)
	}

	records := []parser.Record{{ID: "x", File: "a.rpy", Line: 1, Type: parser.TypeDialogue, Original: "Hi"}}
	for _, lang := range []string{"schinese", "french", "japanese"} {
		if _, err := s.SaveScan(p.ID, lang, records); err != nil {
			t.Fatal(err)
		}
	}

	langs, err := s.Languages(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"french", "japanese", "schinese"}
	if len(langs) != len(want) {
		t.Fatalf("got %v, want %v", langs, want)
	}
	for i := range want {
		if langs[i] != want[i] {
			t.Fatalf("got %v, want %v", langs, want)
		}
	}
}
