package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/drill-api/internal/api/shared"
	"github.com/phrazzld/drill-api/internal/deck"
	"github.com/phrazzld/drill-api/internal/platform/logger"
)

// DeckHandler serves daily decks, answers and per-user statistics.
type DeckHandler struct {
	service deck.Service
	logger  *slog.Logger
}

// NewDeckHandler creates a DeckHandler backed by service.
func NewDeckHandler(service deck.Service, logger *slog.Logger) *DeckHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deck service cannot be nil for DeckHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckHandler{
		service: service,
		logger:  logger.With(slog.String("component", "deck_handler")),
	}
}

// Routes mounts the handler's endpoints on r.
func (h *DeckHandler) Routes(r chi.Router) {
	r.Get("/decks/daily", h.GetDailyDeck)
	r.Get("/decks/{deckID}", h.GetDeck)
	r.Post("/decks/{deckID}/answers", h.SubmitAnswer)
	r.Get("/stats/topics", h.TopicStats)
	r.Delete("/users/{userID}/data", h.ResetUserData)
}

// GetDailyDeck handles GET /api/decks/daily?user=<id>. It builds and persists
// a new deck on every call.
func (h *DeckHandler) GetDailyDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID := getQueryUser(r)

	d, err := h.service.CreateDailyDeck(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build daily deck")
		return
	}

	log.Debug("daily deck created",
		slog.String("user_id", userID),
		slog.String("deck_id", d.ID.String()),
		slog.Int("questions", len(d.Items)))
	shared.RespondWithJSON(w, r, http.StatusOK, dailyDeckToResponse(d))
}

// GetDeck handles GET /api/decks/{deckID}?user=<id>.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := getPathUUID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	d, err := h.service.GetDeck(r.Context(), getQueryUser(r), deckID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load deck")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(d))
}

// SubmitAnswer handles POST /api/decks/{deckID}/answers and responds with the
// updated statistics of the answered question.
func (h *DeckHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, err := getPathUUID(r, "deckID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	stat, err := h.service.RecordAnswer(r.Context(), deck.Answer{
		UserID:     req.User,
		DeckID:     deckID,
		QuestionID: req.QuestionID,
		Correct:    *req.Correct,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record answer")
		return
	}

	log.Debug("answer recorded",
		slog.String("deck_id", deckID.String()),
		slog.String("question_id", req.QuestionID),
		slog.Bool("correct", *req.Correct))
	shared.RespondWithJSON(w, r, http.StatusOK, questionStatToResponse(stat))
}

// TopicStats handles GET /api/stats/topics?user=<id>.
func (h *DeckHandler) TopicStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.TopicSummaries(r.Context(), getQueryUser(r))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load topic statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, topicStatsToResponse(stats))
}

// ResetUserData handles DELETE /api/users/{userID}/data.
func (h *DeckHandler) ResetUserData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID := chi.URLParam(r, "userID")

	if err := h.service.ResetUser(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user data")
		return
	}

	log.Info("user data deleted", slog.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}
