package modes

import (
	"math/rand"

	"harjoitus/internal/checker"
	"harjoitus/internal/content"
	"harjoitus/internal/models"
	"harjoitus/internal/session"
)

type direction int

const (
	fromFinnish direction = iota
	fromEnglish
)

type vocabularyMode struct {
	lib       *content.Library
	id, title string
	direction direction
	policy    session.Policy
}

func newVocabularyMode(lib *content.Library, id, title string, dir direction, policy session.Policy) *vocabularyMode {
	return &vocabularyMode{lib: lib, id: id, title: title, direction: dir, policy: policy}
}

func (m *vocabularyMode) ID() string    { return m.id }
func (m *vocabularyMode) Title() string { return m.title }

func (m *vocabularyMode) Topics() []Topic {
	var topics []Topic
	for _, ch := range m.lib.Chapters() {
		topics = append(topics, Topic{Key: ch, Title: ch, Size: len(m.lib.WordsInChapter(ch))})
	}
	return topics
}

func (m *vocabularyMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		return asItems(m.lib.WordsInChapter(topic))
	})
}

func (m *vocabularyMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *vocabularyMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	w, _ := item.(content.Word)
	if m.direction == fromEnglish {
		return question(item, w.English, "")
	}
	return question(item, w.Finnish, "")
}

func (m *vocabularyMode) Check(q Question, answer string) bool {
	w, ok := q.Item.(content.Word)
	if !ok {
		return false
	}
	if m.direction == fromEnglish {
		return checker.MatchFinnish(answer, w.Finnish)
	}
	return checker.MatchEnglish(answer, w.AcceptedEnglish()...)
}

func (m *vocabularyMode) Expected(q Question) string {
	w, _ := q.Item.(content.Word)
	if m.direction == fromEnglish {
		return checker.Primary(w.Finnish)
	}
	return w.English
}

func (m *vocabularyMode) Explain(q Question) string {
	w, _ := q.Item.(content.Word)
	return w.Finnish + " = " + w.English
}

func (m *vocabularyMode) Rules() Rules {
	return Rules{
		// Escalating sessions repeat items, so their times are not comparable
		TrackBestTime: m.policy != session.Escalating,
		GateTopics:    true,
		Policy:        m.policy,
	}
}
