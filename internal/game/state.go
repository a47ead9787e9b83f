// Package game holds the mode-agnostic state machine that drives practice sessions.
package game

import (
	"harjoitus/internal/models"
	"harjoitus/internal/modes"
	"harjoitus/internal/session"
)

// MenuScreen is the screen shown when no session is running
const MenuScreen = "menu"

// State is everything the presentation layer renders.
// Pointer fields are replaced on change, never modified in place.
type State struct {
	Screen     string                `json:"screen"`
	Selection  modes.Selection       `json:"selection"`
	Session    *session.Session      `json:"-"`
	Question   *modes.Question       `json:"question,omitempty"`
	Feedback   *models.Feedback      `json:"feedback,omitempty"`
	Completion *models.Completion    `json:"completion,omitempty"`
	Progress   models.PlayerProgress `json:"progress"`
}

// InitialState is the menu with empty progress
func InitialState() State {
	return State{Screen: MenuScreen}
}

// Action is an intent forwarded by the presentation layer
type Action interface {
	name() string
}

// Start begins a new session, replacing any running one
type Start struct {
	Mode      string
	Selection modes.Selection
}

// Submit answers the current question
type Submit struct {
	Answer string
}

// Advance dismisses feedback and moves to the next active item
type Advance struct{}

// ClearFeedback dismisses feedback; after a wrong answer the same question stays
type ClearFeedback struct{}

// ReturnToMenu abandons the session without saving it
type ReturnToMenu struct{}

// LoadState replaces the player progress wholesale
type LoadState struct {
	Progress models.PlayerProgress
}

// ResetProgress forgets all best times and topic flags
type ResetProgress struct{}

func (Start) name() string         { return "start" }
func (Submit) name() string        { return "submit" }
func (Advance) name() string       { return "advance" }
func (ClearFeedback) name() string { return "clear-feedback" }
func (ReturnToMenu) name() string  { return "return-to-menu" }
func (LoadState) name() string     { return "load-state" }
func (ResetProgress) name() string { return "reset-progress" }
