package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"

	"harjoitus/internal/models"
	"harjoitus/internal/modes"
	"harjoitus/internal/session"
)

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrUnknownAction   = errors.New("unknown action")
	ErrNoSession       = errors.New("no session running")
	ErrFeedbackPending = errors.New("feedback must be dismissed first")
	ErrNoFeedback      = errors.New("no feedback to dismiss")
	ErrSessionComplete = errors.New("session is complete")
)

// Reducer maps (state, action) to the next state.
// It never modifies the state it is given. It is not safe for concurrent use because of rng.
type Reducer struct {
	registry *modes.Registry
	rng      *rand.Rand
	now      func() time.Time
}

func NewReducer(registry *modes.Registry, rng *rand.Rand, now func() time.Time) *Reducer {
	if now == nil {
		now = time.Now
	}
	return &Reducer{registry: registry, rng: rng, now: now}
}

// Reduce applies a. On error the returned state is s.
func (r *Reducer) Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case Start:
		return r.start(s, a)
	case Submit:
		return r.submit(s, a)
	case Advance:
		return r.advance(s)
	case ClearFeedback:
		return r.clearFeedback(s)
	case ReturnToMenu:
		next := InitialState()
		next.Progress = s.Progress
		return next, nil
	case LoadState:
		next := s
		next.Progress = a.Progress.Clone()
		return next, nil
	case ResetProgress:
		next := s
		next.Progress = models.PlayerProgress{}
		return next, nil
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func (r *Reducer) mode(id string) (modes.Mode, error) {
	m, ok := r.registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, id)
	}
	return m, nil
}

func (r *Reducer) start(s State, a Start) (State, error) {
	m, err := r.mode(a.Mode)
	if err != nil {
		return s, err
	}
	pool, err := m.BuildPool(a.Selection)
	if err != nil {
		return s, err
	}
	sess, err := session.New(m.ID(), m.TopicKey(a.Selection), pool, m.Rules().Policy, r.rng, r.now())
	if err != nil {
		return s, err
	}

	next := State{
		Screen:    m.ID(),
		Selection: modes.Selection{Topics: slices.Clone(a.Selection.Topics)},
		Session:   &sess,
		Progress:  s.Progress,
	}
	next.Question = r.ask(m, sess)
	return next, nil
}

func (r *Reducer) ask(m modes.Mode, sess session.Session) *modes.Question {
	current, ok := sess.Current()
	if !ok {
		return nil
	}
	q := m.Ask(current.Item, r.rng)
	return &q
}

func (r *Reducer) running(s State) (modes.Mode, error) {
	if s.Session == nil {
		return nil, ErrNoSession
	}
	return r.mode(s.Session.Mode)
}

func (r *Reducer) submit(s State, a Submit) (State, error) {
	m, err := r.running(s)
	if err != nil {
		return s, err
	}
	if s.Session.IsComplete {
		return s, ErrSessionComplete
	}
	if s.Feedback != nil {
		return s, ErrFeedbackPending
	}
	if s.Question == nil {
		return s, ErrNoSession
	}

	q := *s.Question
	correct := m.Check(q, a.Answer)
	sess, err := s.Session.RecordResult(s.Session.CurrentIndex, correct, r.now())
	if err != nil {
		return s, err
	}

	next := s
	next.Session = &sess
	next.Feedback = &models.Feedback{
		IsCorrect:     correct,
		UserAnswer:    a.Answer,
		CorrectAnswer: m.Expected(q),
		Prompt:        q.Prompt,
		Explanation:   m.Explain(q),
	}
	if sess.IsComplete {
		next = r.complete(next, m)
	}
	return next, nil
}

// complete books best time and topic flags for a finished session
func (r *Reducer) complete(s State, m modes.Mode) State {
	sess := s.Session
	rules := m.Rules()
	timeMs := sess.Duration().Milliseconds()
	end := sess.StartTime
	if sess.EndTime != nil {
		end = *sess.EndTime
	}

	progress := s.Progress.Clone()
	completion := &models.Completion{
		TimeMs:    timeMs,
		Accuracy:  sess.Accuracy(),
		ItemCount: len(sess.Items),
	}

	if rules.TrackBestTime {
		completion.NewBest = progress.RecordBestTime(models.TimeRecord{
			Mode:      sess.Mode,
			TopicKey:  sess.TopicKey,
			TimeMs:    timeMs,
			Date:      end,
			Accuracy:  completion.Accuracy,
			ItemCount: completion.ItemCount,
		})
	}

	if rules.GateTopics && sess.WrongCount == 0 {
		completion.TopicCompleted = true
		for _, topic := range distinctSorted(s.Selection.Topics) {
			id := models.TopicID(sess.Mode, topic)
			if progress.MarkTopicComplete(id, timeMs, end) {
				completion.NewlyCompleted = append(completion.NewlyCompleted, id)
			}
		}
	}

	s.Progress = progress
	s.Completion = completion
	return s
}

func (r *Reducer) advance(s State) (State, error) {
	m, err := r.running(s)
	if err != nil {
		return s, err
	}
	if s.Feedback == nil {
		return s, ErrNoFeedback
	}

	next := s
	next.Feedback = nil
	if s.Session.IsComplete {
		// The summary stays on screen until the player returns to the menu
		next.Question = nil
		return next, nil
	}

	sess := s.Session.Advance()
	next.Session = &sess
	next.Question = r.ask(m, sess)
	return next, nil
}

func (r *Reducer) clearFeedback(s State) (State, error) {
	m, err := r.running(s)
	if err != nil {
		return s, err
	}
	if s.Feedback == nil {
		return s, ErrNoFeedback
	}

	next := s
	next.Feedback = nil
	if s.Session.IsComplete {
		next.Question = nil
		return next, nil
	}
	if current, ok := s.Session.Current(); ok && current.Eliminated {
		// The item just left the rotation; asking it again would be an error
		sess := s.Session.Advance()
		next.Session = &sess
		next.Question = r.ask(m, sess)
	}
	return next, nil
}

func distinctSorted(in []string) []string {
	out := slices.Clone(in)
	sort.Strings(out)
	return slices.Compact(out)
}
