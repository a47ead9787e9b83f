package modes

import (
	"math/rand"
	"strconv"
	"strings"

	"harjoitus/internal/checker"
	"harjoitus/internal/content"
	"harjoitus/internal/models"
)

// One conjugation question in negativeShare asks for the negative form
const negativeShare = 3

func verbTopics(lib *content.Library) []Topic {
	var topics []Topic
	for _, t := range lib.VerbTypes() {
		key := strconv.Itoa(t)
		topics = append(topics, Topic{Key: key, Title: "Verbityyppi " + key, Size: len(lib.VerbsOfType(t))})
	}
	return topics
}

func verbPool(lib *content.Library, sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, verbTopics(lib), func(topic string) []models.PracticeItem {
		t, err := strconv.Atoi(topic)
		if err != nil {
			return nil
		}
		return asItems(lib.VerbsOfType(t))
	})
}

type conjugateMode struct {
	lib *content.Library
}

func newConjugateMode(lib *content.Library) *conjugateMode {
	return &conjugateMode{lib: lib}
}

func (m *conjugateMode) ID() string    { return VerbTypeConjugate }
func (m *conjugateMode) Title() string { return "Verbien taivutus" }

func (m *conjugateMode) Topics() []Topic { return verbTopics(m.lib) }

func (m *conjugateMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return verbPool(m.lib, sel)
}

func (m *conjugateMode) TopicKey(sel Selection) string { return topicKey(sel) }

// Ask picks a random person and polarity for every question
func (m *conjugateMode) Ask(item models.PracticeItem, rng *rand.Rand) Question {
	v, _ := item.(content.Verb)
	person := content.Person(rng.Intn(6))
	negative := rng.Intn(negativeShare) == 0

	hint := person.Pronoun()
	if negative {
		hint += ", kielteinen"
	}
	q := question(item, v.Infinitive, hint)
	q.Person = int(person)
	q.Negative = negative
	return q
}

func (m *conjugateMode) form(q Question) string {
	v, _ := q.Item.(content.Verb)
	if q.Negative {
		return v.NegativeForm(content.Person(q.Person))
	}
	return v.Form(content.Person(q.Person))
}

// Check accepts the form with or without the personal pronoun
func (m *conjugateMode) Check(q Question, answer string) bool {
	if _, ok := q.Item.(content.Verb); !ok {
		return false
	}
	form := m.form(q)
	withPronoun := content.Person(q.Person).Pronoun() + " " + form
	return checker.MatchFinnish(strings.Join(strings.Fields(answer), " "), form, withPronoun)
}

func (m *conjugateMode) Expected(q Question) string {
	return content.Person(q.Person).Pronoun() + " " + m.form(q)
}

func (m *conjugateMode) Explain(q Question) string {
	v, _ := q.Item.(content.Verb)
	return v.Infinitive + " (" + v.English + "), verbityyppi " + strconv.Itoa(v.Type)
}

func (m *conjugateMode) Rules() Rules {
	return Rules{TrackBestTime: true}
}

type identifyMode struct {
	lib *content.Library
}

func newIdentifyMode(lib *content.Library) *identifyMode {
	return &identifyMode{lib: lib}
}

func (m *identifyMode) ID() string    { return VerbTypeIdentify }
func (m *identifyMode) Title() string { return "Tunnista verbityyppi" }

func (m *identifyMode) Topics() []Topic { return verbTopics(m.lib) }

func (m *identifyMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return verbPool(m.lib, sel)
}

func (m *identifyMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *identifyMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	v, _ := item.(content.Verb)
	return question(item, v.Infinitive, v.English)
}

// Check accepts "3" as well as "type 3" or "tyyppi 3"
func (m *identifyMode) Check(q Question, answer string) bool {
	v, ok := q.Item.(content.Verb)
	if !ok {
		return false
	}
	want := strconv.Itoa(v.Type)
	return checker.MatchFinnish(answer, want, "type "+want, "tyyppi "+want, "verbityyppi "+want)
}

func (m *identifyMode) Expected(q Question) string {
	v, _ := q.Item.(content.Verb)
	return strconv.Itoa(v.Type)
}

func (m *identifyMode) Explain(q Question) string {
	v, _ := q.Item.(content.Verb)
	return v.Infinitive + ": minä " + v.Form(content.Mina) + ", he " + v.Form(content.He)
}

func (m *identifyMode) Rules() Rules {
	return Rules{TrackBestTime: true}
}
