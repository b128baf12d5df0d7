package api

import (
	"log/slog"
	"net/http"

	"github.com/incrementum/incrementum-api/internal/api/shared"
	"github.com/incrementum/incrementum-api/internal/platform/logger"
	"github.com/incrementum/incrementum-api/internal/service/review"
)

// ReviewHandler handles queue and streak HTTP requests.
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.ReviewService, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if log == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// GetQueue handles GET /queue requests.
// It returns the current review queue; an empty queue is a 200 with no items.
func (h *ReviewHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	items, err := h.reviewService.GetQueue(r.Context())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to build review queue"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("queue retrieved", slog.Int("count", len(items)))
	shared.RespondWithJSON(w, r, http.StatusOK, queueToResponse(items))
}

// GetStreak handles GET /streak requests.
func (h *ReviewHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	info, err := h.reviewService.GetStreak(r.Context())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to compute streak"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("streak retrieved",
		slog.Int("current", info.Current),
		slog.Int("longest", info.Longest))
	shared.RespondWithJSON(w, r, http.StatusOK, info)
}
