package queue

import (
	"bytes"
	"sort"
	"time"

	"github.com/incrementum/incrementum-api/internal/domain"
)

// Config controls queue selection.
type Config struct {
	// MaxItems caps the total queue size. Zero means unlimited.
	MaxItems int
	// MaxNewItems caps how many never-reviewed items may enter the queue.
	// Zero means unlimited.
	MaxNewItems int
	// NewItemRatio is the fraction of queue slots reserved for new items,
	// clamped to [0, 1]. At 0 new items go after the due backlog; at higher
	// ratios they are interleaved so a large backlog cannot starve new
	// material.
	NewItemRatio float64
	// ExcludeSuspended removes suspended items from consideration. It is
	// always true in practice and exists as an option for testability.
	ExcludeSuspended bool
}

// DefaultConfig returns the selection settings used when no override is
// configured.
func DefaultConfig() Config {
	return Config{
		MaxItems:         200,
		MaxNewItems:      20,
		NewItemRatio:     0.2,
		ExcludeSuspended: true,
	}
}

// SelectDue filters items down to those reviewable at now and orders them
// for presentation. Due items come overdue-first (ascending due date, with
// priority and then ID breaking ties); new items are interleaved per
// cfg.NewItemRatio. Input order never influences the result.
func SelectDue(items []*domain.LearningItem, now time.Time, cfg Config) []*domain.LearningItem {
	ratio := cfg.NewItemRatio
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	var due, fresh []*domain.LearningItem
	for _, item := range items {
		if item == nil {
			continue
		}
		if cfg.ExcludeSuspended && item.IsSuspended {
			continue
		}
		switch {
		case item.State == domain.StateNew:
			fresh = append(fresh, item)
		case item.IsDue(now):
			due = append(due, item)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	sort.Slice(fresh, func(i, j int) bool {
		a, b := fresh[i], fresh[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	if cfg.MaxNewItems > 0 && len(fresh) > cfg.MaxNewItems {
		fresh = fresh[:cfg.MaxNewItems]
	}

	limit := len(due) + len(fresh)
	if cfg.MaxItems > 0 && cfg.MaxItems < limit {
		limit = cfg.MaxItems
	}

	return interleave(due, fresh, ratio, limit)
}

// interleave merges the due backlog with new items, releasing one new item
// each time the accumulated ratio credit reaches a full slot. Once either
// side is exhausted the other drains in order.
func interleave(due, fresh []*domain.LearningItem, ratio float64, limit int) []*domain.LearningItem {
	merged := make([]*domain.LearningItem, 0, limit)
	var credit float64

	for len(merged) < limit {
		switch {
		case len(due) == 0 && len(fresh) == 0:
			return merged
		case len(due) == 0:
			merged = append(merged, fresh[0])
			fresh = fresh[1:]
		case len(fresh) == 0:
			merged = append(merged, due[0])
			due = due[1:]
		default:
			credit += ratio
			if credit >= 1 {
				credit--
				merged = append(merged, fresh[0])
				fresh = fresh[1:]
			} else {
				merged = append(merged, due[0])
				due = due[1:]
			}
		}
	}
	return merged
}
