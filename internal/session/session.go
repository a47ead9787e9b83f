// Package session drills a shuffled set of practice items until every item is eliminated.
package session

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"harjoitus/internal/models"
)

// NotFound is returned by NextActiveIndex when every item is eliminated
const NotFound = -1

// MaxRequiredCorrect caps how many correct answers the escalating policy can demand
const MaxRequiredCorrect = 3

var (
	ErrEmptyPool       = errors.New("item pool is empty")
	ErrIndexOutOfRange = errors.New("item index out of range")
	ErrItemEliminated  = errors.New("item already eliminated")
	ErrComplete        = errors.New("session already complete")
)

// Policy decides when an item leaves the rotation
type Policy int

const (
	// EliminateOnFirstCorrect removes an item after its first correct answer
	EliminateOnFirstCorrect Policy = iota
	// Escalating raises the number of correct answers an item needs by one per wrong answer
	Escalating
)

func (p Policy) String() string {
	switch p {
	case Escalating:
		return "escalating"
	default:
		return "eliminate-on-first-correct"
	}
}

// ItemState is one practice item with its progress in the current session
type ItemState struct {
	Item            models.PracticeItem
	CorrectCount    int
	WrongCount      int
	Eliminated      bool
	RequiredCorrect int
}

// Session is an in-progress or finished drill. Methods never modify the receiver.
type Session struct {
	ID           string
	Mode         string
	TopicKey     string
	Items        []ItemState
	CurrentIndex int
	StartTime    time.Time
	EndTime      *time.Time
	WrongCount   int
	IsComplete   bool
	Policy       Policy
}

// New shuffles pool and starts a session at now
func New(mode, topicKey string, pool []models.PracticeItem, policy Policy, rng *rand.Rand, now time.Time) (Session, error) {
	if len(pool) == 0 {
		return Session{}, ErrEmptyPool
	}

	items := make([]ItemState, len(pool))
	for i, item := range pool {
		items[i] = ItemState{Item: item, RequiredCorrect: 1}
	}
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	s := Session{
		ID:        uuid.NewString(),
		Mode:      mode,
		TopicKey:  topicKey,
		Items:     items,
		StartTime: now,
		Policy:    policy,
	}
	s.CurrentIndex = s.NextActiveIndex(0)
	return s, nil
}

// NextActiveIndex scans circularly from `from` for the first item still in rotation.
// At most len(Items) positions are visited.
func (s Session) NextActiveIndex(from int) int {
	n := len(s.Items)
	if n == 0 {
		return NotFound
	}
	from = ((from % n) + n) % n
	for i := 0; i < n; i++ {
		idx := (from + i) % n
		if !s.Items[idx].Eliminated {
			return idx
		}
	}
	return NotFound
}

// Current returns the item at CurrentIndex
func (s Session) Current() (ItemState, bool) {
	if s.IsComplete || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Items) {
		return ItemState{}, false
	}
	return s.Items[s.CurrentIndex], true
}

// RecordResult counts an answer for the item at index and returns the updated session.
// The session completes once no active item is left.
func (s Session) RecordResult(index int, correct bool, now time.Time) (Session, error) {
	if s.IsComplete {
		return s, ErrComplete
	}
	if index < 0 || index >= len(s.Items) {
		return s, ErrIndexOutOfRange
	}
	if s.Items[index].Eliminated {
		return s, ErrItemEliminated
	}

	next := s
	next.Items = make([]ItemState, len(s.Items))
	copy(next.Items, s.Items)

	item := &next.Items[index]
	if correct {
		item.CorrectCount++
	} else {
		item.WrongCount++
		next.WrongCount++
		if next.Policy == Escalating && item.RequiredCorrect < MaxRequiredCorrect {
			item.RequiredCorrect++
		}
	}
	if item.RequiredCorrect < 1 {
		item.RequiredCorrect = 1
	}
	item.Eliminated = item.CorrectCount >= item.RequiredCorrect

	if next.ActiveCount() == 0 {
		end := now
		next.EndTime = &end
		next.IsComplete = true
		next.CurrentIndex = NotFound
	}
	return next, nil
}

// Advance moves CurrentIndex to the next active item after the current one
func (s Session) Advance() Session {
	next := s
	next.CurrentIndex = s.NextActiveIndex(s.CurrentIndex + 1)
	return next
}

// ActiveCount is the number of items still in rotation
func (s Session) ActiveCount() int {
	count := 0
	for _, item := range s.Items {
		if !item.Eliminated {
			count++
		}
	}
	return count
}

// TotalAttempts counts every submission, including repeats after wrong answers
func (s Session) TotalAttempts() int {
	total := 0
	for _, item := range s.Items {
		total += item.CorrectCount + item.WrongCount
	}
	return total
}

// Accuracy is the rounded percentage of correct submissions; 0 before any attempt
func (s Session) Accuracy() int {
	attempts := s.TotalAttempts()
	if attempts == 0 {
		return 0
	}
	return int(math.Round(100 * float64(attempts-s.WrongCount) / float64(attempts)))
}

// Duration is the time between start and end, or zero while the session runs
func (s Session) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
