package content

import (
	"strconv"
	"strings"
)

// Person indexes the present tense forms of a verb
type Person int

const (
	Mina Person = iota
	Sina
	Han
	Me
	Te
	He
)

var (
	pronouns      = [6]string{"minä", "sinä", "hän", "me", "te", "he"}
	negationWords = [6]string{"en", "et", "ei", "emme", "ette", "eivät"}
)

// Pronoun returns the personal pronoun, e.g. "minä"
func (p Person) Pronoun() string {
	if p < Mina || p > He {
		return ""
	}
	return pronouns[p]
}

// Negation returns the negative verb for the person, e.g. "en"
func (p Person) Negation() string {
	if p < Mina || p > He {
		return ""
	}
	return negationWords[p]
}

// Word is a vocabulary entry
type Word struct {
	Finnish  string   `yaml:"finnish"`
	English  string   `yaml:"english"`
	Synonyms []string `yaml:"synonyms"`
	Chapter  string   `yaml:"chapter"`
}

func (w Word) Key() string { return w.Finnish }

// AcceptedEnglish lists the translation followed by its synonyms
func (w Word) AcceptedEnglish() []string {
	return append([]string{w.English}, w.Synonyms...)
}

// Verb holds the present tense of one verb
type Verb struct {
	Infinitive string    `yaml:"infinitive"`
	English    string    `yaml:"english"`
	Type       int       `yaml:"type"`
	Present    [6]string `yaml:"present"`
}

func (v Verb) Key() string { return v.Infinitive }

// Form returns the affirmative form for p
func (v Verb) Form(p Person) string {
	return v.Present[p]
}

// Connegative is the stem used after the negative verb: the minä form without its final n
func (v Verb) Connegative() string {
	return strings.TrimSuffix(v.Present[Mina], "n")
}

// NegativeForm returns e.g. "en puhu"
func (v Verb) NegativeForm(p Person) string {
	return p.Negation() + " " + v.Connegative()
}

// CaseSentence is a sentence with one blank to fill with an inflected word
type CaseSentence struct {
	ID           string   `yaml:"id"`
	Case         string   `yaml:"case"`
	Plural       bool     `yaml:"plural"`
	Sentence     string   `yaml:"sentence"`
	Base         string   `yaml:"base"`
	Answer       string   `yaml:"answer"`
	Alternatives []string `yaml:"alternatives"`
	English      string   `yaml:"english"`
}

func (c CaseSentence) Key() string { return c.ID }

// Filled returns the sentence with the answer in place of the blank
func (c CaseSentence) Filled() string {
	return strings.Replace(c.Sentence, Blank, c.Answer, 1)
}

// Blank marks the gap in sentences
const Blank = "___"

// WordForm lists the inflections of a noun or adjective; alternates are "/" separated
type WordForm struct {
	Word            string `yaml:"word"`
	English         string `yaml:"english"`
	Rule            string `yaml:"rule"`
	Partitive       string `yaml:"partitive"`
	PartitivePlural string `yaml:"partitive_plural"`
	Genitive        string `yaml:"genitive"`
	GenitivePlural  string `yaml:"genitive_plural"`
	Plural          string `yaml:"plural"`
}

func (w WordForm) Key() string { return w.Word }

// SmallWord is a "pikkusana": a short adverb or connector
type SmallWord struct {
	Finnish  string   `yaml:"finnish"`
	English  string   `yaml:"english"`
	Synonyms []string `yaml:"synonyms"`
	Category string   `yaml:"category"`
}

func (s SmallWord) Key() string { return s.Finnish }

// AcceptedEnglish lists the translation followed by its synonyms
func (s SmallWord) AcceptedEnglish() []string {
	return append([]string{s.English}, s.Synonyms...)
}

// QuestionWord is a Finnish interrogative with an example sentence
type QuestionWord struct {
	Finnish        string `yaml:"finnish"`
	English        string `yaml:"english"`
	Example        string `yaml:"example"`
	ExampleEnglish string `yaml:"example_english"`
	Category       string `yaml:"category"`
}

func (q QuestionWord) Key() string { return q.Finnish }

// Song is a set of lyric lines studied together
type Song struct {
	ID    string      `yaml:"id"`
	Title string      `yaml:"title"`
	Lines []LyricLine `yaml:"lines"`
}

// LyricLine is one line of a song with the word to fill in
type LyricLine struct {
	Finnish string `yaml:"finnish"`
	English string `yaml:"english"`
	Blank   string `yaml:"blank"`

	SongID string `yaml:"-"`
	Number int    `yaml:"-"`
}

func (l LyricLine) Key() string { return l.SongID + "#" + strconv.Itoa(l.Number) }

// Gapped returns the line with the studied word replaced by a blank
func (l LyricLine) Gapped() string {
	return strings.Replace(l.Finnish, l.Blank, Blank, 1)
}
