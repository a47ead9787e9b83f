package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"harjoitus/internal/game"
	"harjoitus/internal/models"
	"harjoitus/internal/modes"
	"harjoitus/internal/session"
)

// GameHandler exposes the game engine as a JSON API
type GameHandler struct {
	engine    *game.Engine
	registry  *modes.Registry
	validator *requestValidator
	logger    *zap.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(engine *game.Engine, registry *modes.Registry, logger *zap.Logger) *GameHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameHandler{
		engine:    engine,
		registry:  registry,
		validator: newRequestValidator(),
		logger:    logger,
	}
}

type startRequest struct {
	Mode   string   `json:"mode" validate:"required"`
	Topics []string `json:"topics" validate:"required,min=1,dive,required"`
}

func (r *startRequest) normalize() {
	r.Mode = strings.TrimSpace(r.Mode)
	for i, t := range r.Topics {
		r.Topics[i] = strings.TrimSpace(t)
	}
}

type submitRequest struct {
	Answer string `json:"answer" validate:"required"`
}

func (r *submitRequest) normalize() {
	r.Answer = strings.TrimSpace(r.Answer)
}

type topicView struct {
	modes.Topic
	Completed  bool  `json:"completed"`
	BestTimeMs int64 `json:"bestTimeMs,omitempty"`
}

type modeView struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	TrackBestTime bool        `json:"trackBestTime"`
	GateTopics    bool        `json:"gateTopics"`
	Topics        []topicView `json:"topics"`
}

type sessionView struct {
	Mode       string `json:"mode"`
	TopicKey   string `json:"topicKey"`
	Total      int    `json:"total"`
	Remaining  int    `json:"remaining"`
	WrongCount int    `json:"wrongCount"`
	Attempts   int    `json:"attempts"`
	Accuracy   int    `json:"accuracy"`
	Complete   bool   `json:"complete"`
}

type gameResponse struct {
	game.State
	Session *sessionView `json:"session,omitempty"`
}

func newGameResponse(s game.State) gameResponse {
	resp := gameResponse{State: s}
	if sess := s.Session; sess != nil {
		resp.Session = &sessionView{
			Mode:       sess.Mode,
			TopicKey:   sess.TopicKey,
			Total:      len(sess.Items),
			Remaining:  sess.ActiveCount(),
			WrongCount: sess.WrongCount,
			Attempts:   sess.TotalAttempts(),
			Accuracy:   sess.Accuracy(),
			Complete:   sess.IsComplete,
		}
	}
	return resp
}

// ListModes returns every mode with its topics and the player's flags and best times
func (h *GameHandler) ListModes(w http.ResponseWriter, r *http.Request) {
	progress := h.engine.State().Progress

	all := h.registry.All()
	out := make([]modeView, 0, len(all))
	for _, m := range all {
		rules := m.Rules()
		view := modeView{
			ID:            m.ID(),
			Title:         m.Title(),
			TrackBestTime: rules.TrackBestTime,
			GateTopics:    rules.GateTopics,
		}
		for _, t := range m.Topics() {
			tv := topicView{Topic: t}
			if rules.GateTopics {
				tv.Completed = progress.IsTopicComplete(models.TopicID(m.ID(), t.Key))
			}
			if rules.TrackBestTime {
				if rec, ok := progress.BestTime(m.ID(), t.Key); ok {
					tv.BestTimeMs = rec.TimeMs
				}
			}
			view.Topics = append(view.Topics, tv)
		}
		out = append(out, view)
	}

	respondJSON(h.logger, w, http.StatusOK, out)
}

// GetGame returns the current game state
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, newGameResponse(h.engine.State()))
}

// Start begins a session on the selected topics
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := h.validator.decode(w, r, &req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	h.dispatch(w, r, game.Start{Mode: req.Mode, Selection: modes.Selection{Topics: req.Topics}})
}

// Submit answers the current question
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := h.validator.decode(w, r, &req); err != nil {
		h.respondInvalid(w, err)
		return
	}
	h.dispatch(w, r, game.Submit{Answer: req.Answer})
}

// Advance dismisses feedback and moves on
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, game.Advance{})
}

// ClearFeedback dismisses feedback
func (h *GameHandler) ClearFeedback(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, game.ClearFeedback{})
}

// ReturnToMenu abandons the running session
func (h *GameHandler) ReturnToMenu(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, game.ReturnToMenu{})
}

// GetProgress returns best times and topic flags
func (h *GameHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	respondJSON(h.logger, w, http.StatusOK, h.engine.State().Progress)
}

// ResetProgress forgets all progress
func (h *GameHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	s, err := h.engine.Dispatch(r.Context(), game.ResetProgress{})
	if err != nil {
		h.respondActionError(w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, s.Progress)
}

func (h *GameHandler) dispatch(w http.ResponseWriter, r *http.Request, a game.Action) {
	s, err := h.engine.Dispatch(r.Context(), a)
	if err != nil {
		h.respondActionError(w, err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, newGameResponse(s))
}

func (h *GameHandler) respondInvalid(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		h.logger.Error("failed to validate request", zap.Error(err))
		respondJSONError(h.logger, w, http.StatusInternalServerError, ErrInternalServerError, nil)
		return
	}
	respondJSON(h.logger, w, http.StatusBadRequest, map[string]any{
		"error":  ErrInvalidRequest,
		"fields": verr.Fields,
	})
}

func (h *GameHandler) respondActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownMode):
		respondJSONError(h.logger, w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, modes.ErrEmptySelection),
		errors.Is(err, modes.ErrUnknownTopic),
		errors.Is(err, session.ErrEmptyPool):
		respondJSONError(h.logger, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, game.ErrNoSession),
		errors.Is(err, game.ErrFeedbackPending),
		errors.Is(err, game.ErrNoFeedback),
		errors.Is(err, game.ErrSessionComplete):
		respondJSONError(h.logger, w, http.StatusConflict, err.Error(), err)
	default:
		h.logger.Error("action failed", zap.Error(err))
		respondJSONError(h.logger, w, http.StatusInternalServerError, ErrInternalServerError, nil)
	}
}
