package modes

import (
	"math/rand"

	"harjoitus/internal/checker"
	"harjoitus/internal/content"
	"harjoitus/internal/models"
)

type casesMode struct {
	lib    *content.Library
	plural bool
}

func newCasesMode(lib *content.Library, plural bool) *casesMode {
	return &casesMode{lib: lib, plural: plural}
}

func (m *casesMode) ID() string {
	if m.plural {
		return CasesFillBlankPlural
	}
	return CasesFillBlank
}

func (m *casesMode) Title() string {
	if m.plural {
		return "Sijamuodot monikossa"
	}
	return "Sijamuodot"
}

func (m *casesMode) Topics() []Topic {
	var topics []Topic
	for _, name := range m.lib.CaseNames(m.plural) {
		topics = append(topics, Topic{Key: name, Title: name, Size: len(m.lib.SentencesFor(name, m.plural))})
	}
	return topics
}

func (m *casesMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		return asItems(m.lib.SentencesFor(topic, m.plural))
	})
}

func (m *casesMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *casesMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	s, _ := item.(content.CaseSentence)
	return question(item, s.Sentence, s.Base)
}

func (m *casesMode) Check(q Question, answer string) bool {
	s, ok := q.Item.(content.CaseSentence)
	if !ok {
		return false
	}
	return checker.MatchFinnish(answer, append([]string{s.Answer}, s.Alternatives...)...)
}

func (m *casesMode) Expected(q Question) string {
	s, _ := q.Item.(content.CaseSentence)
	return s.Answer
}

func (m *casesMode) Explain(q Question) string {
	s, _ := q.Item.(content.CaseSentence)
	return s.Case + ": " + s.Filled() + " (" + s.English + ")"
}

func (m *casesMode) Rules() Rules {
	return Rules{TrackBestTime: true}
}
