package content

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadEmbedded(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  int
	}{
		{"words", len(lib.Words)},
		{"verbs", len(lib.Verbs)},
		{"sentences", len(lib.Sentences)},
		{"forms", len(lib.Forms)},
		{"small words", len(lib.SmallWords)},
		{"question words", len(lib.QuestionWords)},
		{"songs", len(lib.Songs)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == 0 {
				t.Errorf("no %s loaded", tt.name)
			}
		})
	}

	if got := lib.VerbTypes(); len(got) != 6 || got[0] != 1 || got[5] != 6 {
		t.Errorf("VerbTypes() = %v, want 1..6", got)
	}
	if got := lib.Chapters(); len(got) == 0 || got[0] != "basics" {
		t.Errorf("Chapters() = %v", got)
	}
	if len(lib.CaseNames(true)) == 0 || len(lib.CaseNames(false)) == 0 {
		t.Error("expected singular and plural case names")
	}
}

func TestEmbeddedFilesDecode(t *testing.T) {
	names, err := fs.Glob(dataFiles, "data/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 7 {
		t.Fatalf("expected 7 embedded tables, got %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			var out map[string]any
			if err := decodeFile(dataFiles, name, &out); err != nil {
				t.Fatalf("decode %s: %v", name, err)
			}
		})
	}
}

func TestQuestionExamplesKeepPunctuation(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, q := range lib.QuestionWords {
		if !strings.HasSuffix(q.Example, "?") || !strings.HasSuffix(q.ExampleEnglish, "?") {
			t.Errorf("%s: examples %q / %q lost their question mark", q.Finnish, q.Example, q.ExampleEnglish)
		}
	}
}

func TestVerbForms(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	var puhua Verb
	for _, v := range lib.VerbsOfType(1) {
		if v.Infinitive == "puhua" {
			puhua = v
		}
	}
	if puhua.Infinitive == "" {
		t.Fatal("puhua not found among type 1 verbs")
	}

	tests := []struct {
		person   Person
		positive string
		negative string
	}{
		{Mina, "puhun", "en puhu"},
		{Han, "puhuu", "ei puhu"},
		{He, "puhuvat", "eivät puhu"},
	}
	for _, tt := range tests {
		t.Run(tt.person.Pronoun(), func(t *testing.T) {
			if got := puhua.Form(tt.person); got != tt.positive {
				t.Errorf("Form() = %q, want %q", got, tt.positive)
			}
			if got := puhua.NegativeForm(tt.person); got != tt.negative {
				t.Errorf("NegativeForm() = %q, want %q", got, tt.negative)
			}
		})
	}
}

func TestLyricLines(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	song, ok := lib.Song("maamme")
	if !ok {
		t.Fatal("maamme not found")
	}
	first := song.Lines[0]
	if first.Key() != "maamme#1" {
		t.Errorf("Key() = %q", first.Key())
	}
	if first.Gapped() != "Oi maamme, ___, synnyinmaa," {
		t.Errorf("Gapped() = %q", first.Gapped())
	}
}

func embeddedCopy(t *testing.T) fstest.MapFS {
	t.Helper()
	out := fstest.MapFS{}
	sub, err := fs.Sub(dataFiles, "data")
	if err != nil {
		t.Fatal(err)
	}
	err = fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(sub, path)
		if err != nil {
			return err
		}
		out[path] = &fstest.MapFile{Data: raw}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestLoadFSRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "duplicate word",
			file: "vocabulary.yaml",
			data: "words:\n  - {finnish: talo, english: house, chapter: basics}\n  - {finnish: talo, english: home, chapter: basics}\n",
		},
		{
			name: "verb type out of range",
			file: "verbs.yaml",
			data: "verbs:\n  - {infinitive: puhua, english: to speak, type: 7, present: [a, b, c, d, e, f]}\n",
		},
		{
			name: "sentence without blank",
			file: "cases.yaml",
			data: "sentences:\n  - {id: x, case: inessive, sentence: Asun Helsingissä., answer: Helsingissä}\n",
		},
		{
			name: "unknown field",
			file: "pikkusanat.yaml",
			data: "words:\n  - {finnish: nyt, english: now, kategoria: time}\n",
		},
		{
			name: "lyric blank missing from line",
			file: "songs.yaml",
			data: "songs:\n  - id: s\n    title: S\n    lines:\n      - {finnish: abc, english: x, blank: zzz}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := embeddedCopy(t)
			fsys[tt.file] = &fstest.MapFile{Data: []byte(tt.data)}
			if _, err := LoadFS(fsys); err == nil {
				t.Error("LoadFS() expected error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		fsys := embeddedCopy(t)
		delete(fsys, "songs.yaml")
		if _, err := LoadFS(fsys); err == nil {
			t.Error("LoadFS() expected error")
		}
	})

	t.Run("validation errors are typed", func(t *testing.T) {
		fsys := embeddedCopy(t)
		fsys["vocabulary.yaml"] = &fstest.MapFile{Data: []byte("words:\n  - {finnish: '', english: x, chapter: y}\n")}
		if _, err := LoadFS(fsys); !errors.Is(err, ErrInvalidContent) {
			t.Errorf("LoadFS() error = %v, want ErrInvalidContent", err)
		}
	})
}
