// Package modes implements one variant per practice mode behind a single interface,
// so the game reducer never branches on the mode id.
package modes

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"strings"

	"harjoitus/internal/models"
	"harjoitus/internal/session"
)

var (
	ErrEmptySelection = errors.New("selection yields no items")
	ErrUnknownTopic   = errors.New("unknown topic")
)

// Selection is the set of topics the player picked from the menu
type Selection struct {
	Topics []string `json:"topics"`
}

// Topic is one selectable group of items within a mode
type Topic struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Size  int    `json:"size"`
}

// Question is what the player sees for the current item
type Question struct {
	Item     models.PracticeItem `json:"-"`
	ItemKey  string              `json:"itemKey"`
	Prompt   string              `json:"prompt"`
	Hint     string              `json:"hint,omitempty"`
	Person   int                 `json:"person,omitempty"`
	Negative bool                `json:"negative,omitempty"`
}

// Rules are the per-mode bookkeeping switches
type Rules struct {
	// TrackBestTime records the completion time per topic key
	TrackBestTime bool
	// GateTopics flips a topic completion flag on a perfect session
	GateTopics bool
	Policy     session.Policy
}

// Mode is one practice game
type Mode interface {
	ID() string
	Title() string
	Topics() []Topic
	BuildPool(sel Selection) ([]models.PracticeItem, error)
	TopicKey(sel Selection) string
	Ask(item models.PracticeItem, rng *rand.Rand) Question
	Check(q Question, answer string) bool
	Expected(q Question) string
	Explain(q Question) string
	Rules() Rules
}

// Mode ids
const (
	VocabularyRecall       = "vocabulary-recall"
	VocabularyActiveRecall = "vocabulary-active-recall"
	VocabularyMemorise     = "vocabulary-memorise"
	CasesFillBlank         = "cases-fill-blank"
	CasesFillBlankPlural   = "cases-fill-blank-plural"
	VerbTypeConjugate      = "verb-type-conjugate"
	VerbTypeIdentify       = "verb-type-identify"
	Partitive              = "partitive"
	PartitivePlural        = "partitive-plural"
	Plural                 = "plural"
	Genitive               = "genitive"
	GenitivePlural         = "genitive-plural"
	Pikkusanat             = "pikkusanat"
	Lyrics                 = "lyrics"
	QuestionWords          = "question-words"
)

// topicKey joins the distinct selected topics in sorted order
func topicKey(sel Selection) string {
	topics := slices.Clone(sel.Topics)
	sort.Strings(topics)
	return strings.Join(slices.Compact(topics), "+")
}

// poolFrom collects the items of every selected topic.
// Each topic is looked up once even if selected twice.
func poolFrom(sel Selection, known []Topic, items func(topic string) []models.PracticeItem) ([]models.PracticeItem, error) {
	if len(sel.Topics) == 0 {
		return nil, ErrEmptySelection
	}

	seen := make(map[string]bool)
	var pool []models.PracticeItem
	for _, topic := range sel.Topics {
		if seen[topic] {
			continue
		}
		seen[topic] = true
		if !slices.ContainsFunc(known, func(t Topic) bool { return t.Key == topic }) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
		}
		pool = append(pool, items(topic)...)
	}

	if len(pool) == 0 {
		return nil, ErrEmptySelection
	}
	return pool, nil
}

func asItems[T models.PracticeItem](in []T) []models.PracticeItem {
	out := make([]models.PracticeItem, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func question(item models.PracticeItem, prompt, hint string) Question {
	return Question{Item: item, ItemKey: item.Key(), Prompt: prompt, Hint: hint}
}
