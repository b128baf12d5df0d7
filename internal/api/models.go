package api

import (
	"time"

	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/domain/srs"
)

// ItemResponse represents the response data for a learning item.
type ItemResponse struct {
	ID             string              `json:"id"`
	Question       string              `json:"question"`
	Answer         string              `json:"answer,omitempty"`
	State          string              `json:"state"`
	IntervalDays   float64             `json:"interval_days"`
	DueDate        time.Time           `json:"due_date"`
	LastReviewDate *time.Time          `json:"last_review_date,omitempty"`
	ReviewCount    int                 `json:"review_count"`
	Lapses         int                 `json:"lapses"`
	Memory         *domain.MemoryState `json:"memory_state,omitempty"`
	Priority       float64             `json:"priority"`
	IsSuspended    bool                `json:"is_suspended"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// QueueResponse represents the response data for the review queue.
type QueueResponse struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// ReviewOutcomeResponse represents the response data for a committed review.
type ReviewOutcomeResponse struct {
	Item        ItemResponse      `json:"item"`
	Log         *domain.ReviewLog `json:"log"`
	LapsesDelta int               `json:"lapses_delta"`
}

// CreateItemRequest represents the request body for creating a learning item.
type CreateItemRequest struct {
	Question string  `json:"question" validate:"required"`
	Answer   string  `json:"answer"`
	Priority float64 `json:"priority" validate:"gte=0,lte=1"`
}

// SubmitReviewRequest represents the request body for rating an item.
type SubmitReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// PostponeRequest represents the request body for postponing an item.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,gte=1"`
}

// SuspendRequest represents the request body for toggling suspension.
type SuspendRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

// itemToResponse converts a domain.LearningItem to an ItemResponse.
func itemToResponse(item *domain.LearningItem) ItemResponse {
	return ItemResponse{
		ID:             item.ID.String(),
		Question:       item.Question,
		Answer:         item.Answer,
		State:          item.State.String(),
		IntervalDays:   item.IntervalDays,
		DueDate:        item.DueDate,
		LastReviewDate: item.LastReviewDate,
		ReviewCount:    item.ReviewCount,
		Lapses:         item.Lapses,
		Memory:         item.Memory,
		Priority:       item.Priority,
		IsSuspended:    item.IsSuspended,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// queueToResponse converts a queue of items to a QueueResponse.
func queueToResponse(items []*domain.LearningItem) QueueResponse {
	out := QueueResponse{
		Items: make([]ItemResponse, 0, len(items)),
		Count: len(items),
	}
	for _, item := range items {
		out.Items = append(out.Items, itemToResponse(item))
	}
	return out
}

// HistoryResponse represents the response data for an item's review history.
type HistoryResponse struct {
	Entries []*domain.ReviewLog `json:"entries"`
	Count   int                 `json:"count"`
}

// historyToResponse wraps review log entries in a HistoryResponse.
func historyToResponse(entries []*domain.ReviewLog) HistoryResponse {
	if entries == nil {
		entries = []*domain.ReviewLog{}
	}
	return HistoryResponse{Entries: entries, Count: len(entries)}
}

// outcomeToResponse converts an srs.Outcome to a ReviewOutcomeResponse.
func outcomeToResponse(outcome *srs.Outcome) ReviewOutcomeResponse {
	return ReviewOutcomeResponse{
		Item:        itemToResponse(outcome.Item),
		Log:         outcome.Log,
		LapsesDelta: outcome.LapsesDelta,
	}
}
