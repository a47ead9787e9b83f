// Package content loads the static practice tables embedded in the binary.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFiles embed.FS

var ErrInvalidContent = errors.New("invalid content")

// Library is the read-only set of practice tables
type Library struct {
	Words         []Word
	Verbs         []Verb
	Sentences     []CaseSentence
	Forms         []WordForm
	SmallWords    []SmallWord
	QuestionWords []QuestionWord
	Songs         []Song
}

// Load reads the embedded tables
func Load() (*Library, error) {
	sub, err := fs.Sub(dataFiles, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open content: %w", err)
	}
	return LoadFS(sub)
}

// LoadFS reads the tables from fsys and validates them
func LoadFS(fsys fs.FS) (*Library, error) {
	var (
		vocabulary struct {
			Words []Word `yaml:"words"`
		}
		verbs struct {
			Verbs []Verb `yaml:"verbs"`
		}
		cases struct {
			Sentences []CaseSentence `yaml:"sentences"`
		}
		forms struct {
			Words []WordForm `yaml:"words"`
		}
		small struct {
			Words []SmallWord `yaml:"words"`
		}
		questions struct {
			Questions []QuestionWord `yaml:"questions"`
		}
		songs struct {
			Songs []Song `yaml:"songs"`
		}
	)

	files := []struct {
		name string
		out  any
	}{
		{"vocabulary.yaml", &vocabulary},
		{"verbs.yaml", &verbs},
		{"cases.yaml", &cases},
		{"forms.yaml", &forms},
		{"pikkusanat.yaml", &small},
		{"questions.yaml", &questions},
		{"songs.yaml", &songs},
	}
	for _, f := range files {
		if err := decodeFile(fsys, f.name, f.out); err != nil {
			return nil, err
		}
	}

	lib := &Library{
		Words:         vocabulary.Words,
		Verbs:         verbs.Verbs,
		Sentences:     cases.Sentences,
		Forms:         forms.Words,
		SmallWords:    small.Words,
		QuestionWords: questions.Questions,
		Songs:         songs.Songs,
	}
	for i := range lib.Songs {
		for j := range lib.Songs[i].Lines {
			lib.Songs[i].Lines[j].SongID = lib.Songs[i].ID
			lib.Songs[i].Lines[j].Number = j + 1
		}
	}

	if err := lib.validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (l *Library) validate() error {
	var errs []error
	unique := func(table string) func(key string) {
		seen := make(map[string]bool)
		return func(key string) {
			switch {
			case strings.TrimSpace(key) == "":
				errs = append(errs, fmt.Errorf("%w: %s entry without key", ErrInvalidContent, table))
			case seen[key]:
				errs = append(errs, fmt.Errorf("%w: duplicate %s key %q", ErrInvalidContent, table, key))
			}
			seen[key] = true
		}
	}

	check := unique("vocabulary")
	for _, w := range l.Words {
		check(w.Key())
		if w.English == "" || w.Chapter == "" {
			errs = append(errs, fmt.Errorf("%w: word %q needs english and chapter", ErrInvalidContent, w.Finnish))
		}
	}

	check = unique("verb")
	for _, v := range l.Verbs {
		check(v.Key())
		if v.Type < 1 || v.Type > 6 {
			errs = append(errs, fmt.Errorf("%w: verb %q has type %d", ErrInvalidContent, v.Infinitive, v.Type))
		}
		for p, form := range v.Present {
			if form == "" {
				errs = append(errs, fmt.Errorf("%w: verb %q is missing the %s form", ErrInvalidContent, v.Infinitive, Person(p).Pronoun()))
			}
		}
	}

	check = unique("sentence")
	for _, s := range l.Sentences {
		check(s.Key())
		if strings.Count(s.Sentence, Blank) != 1 || s.Answer == "" || s.Case == "" {
			errs = append(errs, fmt.Errorf("%w: sentence %q needs one blank, an answer and a case", ErrInvalidContent, s.ID))
		}
	}

	check = unique("form")
	for _, f := range l.Forms {
		check(f.Key())
		if f.Rule == "" {
			errs = append(errs, fmt.Errorf("%w: word %q has no rule", ErrInvalidContent, f.Word))
		}
	}

	check = unique("small word")
	for _, s := range l.SmallWords {
		check(s.Key())
	}

	check = unique("question word")
	for _, q := range l.QuestionWords {
		check(q.Key())
	}

	check = unique("song")
	for _, s := range l.Songs {
		check(s.ID)
		for _, line := range s.Lines {
			if line.Blank == "" || !strings.Contains(line.Finnish, line.Blank) {
				errs = append(errs, fmt.Errorf("%w: song %q line %d does not contain %q", ErrInvalidContent, s.ID, line.Number, line.Blank))
			}
		}
	}

	return errors.Join(errs...)
}

// Chapters lists vocabulary chapters in table order
func (l *Library) Chapters() []string {
	return distinct(len(l.Words), func(i int) string { return l.Words[i].Chapter })
}

// WordsInChapter returns the vocabulary of one chapter
func (l *Library) WordsInChapter(chapter string) []Word {
	var out []Word
	for _, w := range l.Words {
		if w.Chapter == chapter {
			out = append(out, w)
		}
	}
	return out
}

// VerbTypes lists the verb types present in the table, ascending
func (l *Library) VerbTypes() []int {
	seen := make(map[int]bool)
	var out []int
	for _, v := range l.Verbs {
		if !seen[v.Type] {
			seen[v.Type] = true
			out = append(out, v.Type)
		}
	}
	sort.Ints(out)
	return out
}

// VerbsOfType returns the verbs of one conjugation type
func (l *Library) VerbsOfType(verbType int) []Verb {
	var out []Verb
	for _, v := range l.Verbs {
		if v.Type == verbType {
			out = append(out, v)
		}
	}
	return out
}

// CaseNames lists the grammatical cases that have singular or plural sentences
func (l *Library) CaseNames(plural bool) []string {
	var matching []CaseSentence
	for _, s := range l.Sentences {
		if s.Plural == plural {
			matching = append(matching, s)
		}
	}
	return distinct(len(matching), func(i int) string { return matching[i].Case })
}

// SentencesFor returns the sentences for one case and number
func (l *Library) SentencesFor(caseName string, plural bool) []CaseSentence {
	var out []CaseSentence
	for _, s := range l.Sentences {
		if s.Case == caseName && s.Plural == plural {
			out = append(out, s)
		}
	}
	return out
}

// Rules lists the inflection rules in table order
func (l *Library) Rules() []string {
	return distinct(len(l.Forms), func(i int) string { return l.Forms[i].Rule })
}

// FormsForRule returns the words that follow one inflection rule
func (l *Library) FormsForRule(rule string) []WordForm {
	var out []WordForm
	for _, f := range l.Forms {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

// SmallWordCategories lists pikkusana categories in table order
func (l *Library) SmallWordCategories() []string {
	return distinct(len(l.SmallWords), func(i int) string { return l.SmallWords[i].Category })
}

// SmallWordsIn returns the small words of one category
func (l *Library) SmallWordsIn(category string) []SmallWord {
	var out []SmallWord
	for _, s := range l.SmallWords {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// QuestionCategories lists question word categories in table order
func (l *Library) QuestionCategories() []string {
	return distinct(len(l.QuestionWords), func(i int) string { return l.QuestionWords[i].Category })
}

// QuestionsIn returns the question words of one category
func (l *Library) QuestionsIn(category string) []QuestionWord {
	var out []QuestionWord
	for _, q := range l.QuestionWords {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Song looks up a song by id
func (l *Library) Song(id string) (Song, bool) {
	for _, s := range l.Songs {
		if s.ID == id {
			return s, true
		}
	}
	return Song{}, false
}

func distinct(n int, at func(int) string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < n; i++ {
		v := at(i)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
