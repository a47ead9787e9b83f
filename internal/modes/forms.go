package modes

import (
	"math/rand"
	"strings"

	"harjoitus/internal/checker"
	"harjoitus/internal/content"
	"harjoitus/internal/models"
)

// formMode drills one inflected form of nouns grouped by inflection rule
type formMode struct {
	lib       *content.Library
	id, title string
	label     string
	field     func(content.WordForm) string
}

func newFormMode(lib *content.Library, id, title, label string, field func(content.WordForm) string) *formMode {
	return &formMode{lib: lib, id: id, title: title, label: label, field: field}
}

func (m *formMode) ID() string    { return m.id }
func (m *formMode) Title() string { return m.title }

func (m *formMode) Topics() []Topic {
	var topics []Topic
	for _, rule := range m.lib.Rules() {
		topics = append(topics, Topic{Key: rule, Title: rule, Size: len(m.lib.FormsForRule(rule))})
	}
	return topics
}

func (m *formMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		return asItems(m.lib.FormsForRule(topic))
	})
}

func (m *formMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *formMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	w, _ := item.(content.WordForm)
	return question(item, w.Word, m.label)
}

func (m *formMode) Check(q Question, answer string) bool {
	w, ok := q.Item.(content.WordForm)
	if !ok {
		return false
	}
	return checker.MatchFinnish(answer, m.field(w))
}

func (m *formMode) Expected(q Question) string {
	w, _ := q.Item.(content.WordForm)
	return checker.Primary(m.field(w))
}

// Explain lists every accepted alternative
func (m *formMode) Explain(q Question) string {
	w, _ := q.Item.(content.WordForm)
	return w.Word + " (" + w.English + "), " + m.label + ": " + strings.ReplaceAll(m.field(w), "/", " / ")
}

func (m *formMode) Rules() Rules {
	return Rules{TrackBestTime: true}
}
