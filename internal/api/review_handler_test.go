package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/incrementum/incrementum-api/internal/domain"
	"github.com/incrementum/incrementum-api/internal/service/review"
)

func TestGetQueueHandler(t *testing.T) {
	tests := []struct {
		name           string
		serviceItems   []*domain.LearningItem
		serviceError   error
		expectedStatus int
		expectedCount  int
	}{
		{
			name:           "Success",
			serviceItems:   []*domain.LearningItem{sampleItem(uuid.New()), sampleItem(uuid.New())},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:           "Empty Queue",
			serviceItems:   nil,
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "Service Failure",
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &review.MockReviewService{
				GetQueueFunc: func(_ context.Context) ([]*domain.LearningItem, error) {
					return tc.serviceItems, tc.serviceError
				},
			}
			handler := NewReviewHandler(mockService, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil)
			rr := httptest.NewRecorder()
			handler.GetQueue(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tc.expectedStatus)
			}

			if tc.expectedStatus == http.StatusOK {
				var response QueueResponse
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				if response.Count != tc.expectedCount {
					t.Errorf("wrong queue count: got %v want %v", response.Count, tc.expectedCount)
				}
				if len(response.Items) != tc.expectedCount {
					t.Errorf("wrong number of items: got %v want %v", len(response.Items), tc.expectedCount)
				}
			}
		})
	}
}

func TestGetStreakHandler(t *testing.T) {
	tests := []struct {
		name           string
		serviceInfo    *review.StreakInfo
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			serviceInfo:    &review.StreakInfo{Current: 3, Longest: 9, ActiveDays: 20, TotalReview: 150},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Service Failure",
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &review.MockReviewService{
				GetStreakFunc: func(_ context.Context) (*review.StreakInfo, error) {
					return tc.serviceInfo, tc.serviceError
				},
			}
			handler := NewReviewHandler(mockService, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/streak", nil)
			rr := httptest.NewRecorder()
			handler.GetStreak(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("wrong status code: got %v want %v", rr.Code, tc.expectedStatus)
			}

			if tc.expectedStatus == http.StatusOK {
				var response review.StreakInfo
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				if response.Current != 3 || response.Longest != 9 {
					t.Errorf("streak fields not round-tripped: %+v", response)
				}
			}
		})
	}
}
