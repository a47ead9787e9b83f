package modes

import (
	"math/rand"

	"harjoitus/internal/checker"
	"harjoitus/internal/content"
	"harjoitus/internal/models"
)

type smallWordsMode struct {
	lib *content.Library
}

func newSmallWordsMode(lib *content.Library) *smallWordsMode {
	return &smallWordsMode{lib: lib}
}

func (m *smallWordsMode) ID() string    { return Pikkusanat }
func (m *smallWordsMode) Title() string { return "Pikkusanat" }

func (m *smallWordsMode) Topics() []Topic {
	var topics []Topic
	for _, c := range m.lib.SmallWordCategories() {
		topics = append(topics, Topic{Key: c, Title: c, Size: len(m.lib.SmallWordsIn(c))})
	}
	return topics
}

func (m *smallWordsMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		return asItems(m.lib.SmallWordsIn(topic))
	})
}

func (m *smallWordsMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *smallWordsMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	s, _ := item.(content.SmallWord)
	return question(item, s.Finnish, "")
}

func (m *smallWordsMode) Check(q Question, answer string) bool {
	s, ok := q.Item.(content.SmallWord)
	if !ok {
		return false
	}
	return checker.MatchEnglish(answer, s.AcceptedEnglish()...)
}

func (m *smallWordsMode) Expected(q Question) string {
	s, _ := q.Item.(content.SmallWord)
	return s.English
}

func (m *smallWordsMode) Explain(q Question) string {
	s, _ := q.Item.(content.SmallWord)
	return s.Finnish + " = " + s.English
}

func (m *smallWordsMode) Rules() Rules {
	return Rules{TrackBestTime: true, GateTopics: true}
}

type questionWordsMode struct {
	lib *content.Library
}

func newQuestionWordsMode(lib *content.Library) *questionWordsMode {
	return &questionWordsMode{lib: lib}
}

func (m *questionWordsMode) ID() string    { return QuestionWords }
func (m *questionWordsMode) Title() string { return "Kysymyssanat" }

func (m *questionWordsMode) Topics() []Topic {
	var topics []Topic
	for _, c := range m.lib.QuestionCategories() {
		topics = append(topics, Topic{Key: c, Title: c, Size: len(m.lib.QuestionsIn(c))})
	}
	return topics
}

func (m *questionWordsMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		return asItems(m.lib.QuestionsIn(topic))
	})
}

func (m *questionWordsMode) TopicKey(sel Selection) string { return topicKey(sel) }

// Ask shows the English word with the English example, which tells apart words like mikä and mitä
func (m *questionWordsMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	qw, _ := item.(content.QuestionWord)
	return question(item, qw.English, qw.ExampleEnglish)
}

func (m *questionWordsMode) Check(q Question, answer string) bool {
	qw, ok := q.Item.(content.QuestionWord)
	if !ok {
		return false
	}
	return checker.MatchFinnish(answer, qw.Finnish)
}

func (m *questionWordsMode) Expected(q Question) string {
	qw, _ := q.Item.(content.QuestionWord)
	return checker.Primary(qw.Finnish)
}

func (m *questionWordsMode) Explain(q Question) string {
	qw, _ := q.Item.(content.QuestionWord)
	return qw.Example + " (" + qw.ExampleEnglish + ")"
}

func (m *questionWordsMode) Rules() Rules {
	return Rules{TrackBestTime: true, GateTopics: true}
}

type lyricsMode struct {
	lib *content.Library
}

func newLyricsMode(lib *content.Library) *lyricsMode {
	return &lyricsMode{lib: lib}
}

func (m *lyricsMode) ID() string    { return Lyrics }
func (m *lyricsMode) Title() string { return "Laulujen sanat" }

func (m *lyricsMode) Topics() []Topic {
	var topics []Topic
	for _, s := range m.lib.Songs {
		topics = append(topics, Topic{Key: s.ID, Title: s.Title, Size: len(s.Lines)})
	}
	return topics
}

func (m *lyricsMode) BuildPool(sel Selection) ([]models.PracticeItem, error) {
	return poolFrom(sel, m.Topics(), func(topic string) []models.PracticeItem {
		song, _ := m.lib.Song(topic)
		return asItems(song.Lines)
	})
}

func (m *lyricsMode) TopicKey(sel Selection) string { return topicKey(sel) }

func (m *lyricsMode) Ask(item models.PracticeItem, _ *rand.Rand) Question {
	l, _ := item.(content.LyricLine)
	return question(item, l.Gapped(), l.English)
}

func (m *lyricsMode) Check(q Question, answer string) bool {
	l, ok := q.Item.(content.LyricLine)
	if !ok {
		return false
	}
	return checker.MatchFinnish(answer, l.Blank)
}

func (m *lyricsMode) Expected(q Question) string {
	l, _ := q.Item.(content.LyricLine)
	return l.Blank
}

func (m *lyricsMode) Explain(q Question) string {
	l, _ := q.Item.(content.LyricLine)
	return l.Finnish
}

func (m *lyricsMode) Rules() Rules {
	return Rules{}
}
