package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/api/shared"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/platform/logger"
	"github.com/incrementum/incrementum-api/internal/service/review"
)

// ItemHandler handles learning-item HTTP requests.
type ItemHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(reviewService review.ReviewService, log *slog.Logger) *ItemHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for ItemHandler")
	}
	if log == nil {
		panic("logger cannot be nil for ItemHandler")
	}

	return &ItemHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "item_handler")),
	}
}

// itemIDFromRequest extracts and parses the {id} URL parameter.
func itemIDFromRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	pathID := chi.URLParam(r, "id")
	if pathID == "" {
		log.Warn("item ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid item ID format", slog.String("item_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID format")
		return uuid.Nil, false
	}
	return id, true
}

// CreateItem handles POST /items requests.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.reviewService.CreateItem(r.Context(), review.CreateItemRequest{
		Question: req.Question,
		Answer:   req.Answer,
		Priority: req.Priority,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("item created", slog.String("item_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, itemToResponse(item))
}

// GetItem handles GET /items/{id} requests.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	item, err := h.reviewService.GetItem(r.Context(), itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// DeleteItem handles DELETE /items/{id} requests.
// Deleting an item also removes its review log entries.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteItem(r.Context(), itemID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("item deleted", slog.String("item_id", itemID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetItemHistory handles GET /items/{id}/history requests.
func (h *ItemHandler) GetItemHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	entries, err := h.reviewService.GetHistory(r.Context(), itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, historyToResponse(entries))
}

// PreviewItem handles GET /items/{id}/preview requests.
// It projects the scheduling outcome of each rating without committing one.
func (h *ItemHandler) PreviewItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	preview, err := h.reviewService.Preview(r.Context(), itemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, preview)
}

// SubmitReview handles POST /items/{id}/review requests.
// It processes a rating for an item and commits the new schedule.
func (h *ItemHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	var rating domain.Rating
	if err := rating.UnmarshalText([]byte(req.Rating)); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	outcome, err := h.reviewService.SubmitReview(r.Context(), itemID, rating)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review submitted",
		slog.String("item_id", itemID.String()),
		slog.String("rating", rating.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, outcomeToResponse(outcome))
}

// PostponeItem handles POST /items/{id}/postpone requests.
func (h *ItemHandler) PostponeItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.reviewService.Postpone(r.Context(), itemID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("item postponed",
		slog.String("item_id", itemID.String()),
		slog.Int("days", req.Days))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}

// SuspendItem handles POST /items/{id}/suspend requests.
func (h *ItemHandler) SuspendItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	itemID, ok := itemIDFromRequest(w, r, log)
	if !ok {
		return
	}

	var req SuspendRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	item, err := h.reviewService.SetSuspended(r.Context(), itemID, *req.Suspended)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("item suspension changed",
		slog.String("item_id", itemID.String()),
		slog.Bool("suspended", *req.Suspended))
	shared.RespondWithJSON(w, r, http.StatusOK, itemToResponse(item))
}
