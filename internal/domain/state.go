package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// ItemState represents the lifecycle stage of a learning item.
type ItemState int

const (
	StateNew        ItemState = iota + 1 // Never reviewed.
	StateLearning                        // In the initial learning-step ladder.
	StateReview                          // Graduated; intervals governed by the memory model.
	StateRelearning                      // Lapsed; working back through relearning steps.
)

var stateNames = [...]string{
	StateNew:        "new",
	StateLearning:   "learning",
	StateReview:     "review",
	StateRelearning: "relearning",
}

// Compile-time interface checks.
var (
	_ fmt.Stringer             = ItemState(0)
	_ encoding.TextMarshaler   = ItemState(0)
	_ encoding.TextUnmarshaler = (*ItemState)(nil)
)

// IsValid reports whether s is one of the recognized states.
func (s ItemState) IsValid() bool {
	return s >= StateNew && s <= StateRelearning
}

// String returns the name of the state. For invalid values it returns
// "ItemState(n)".
func (s ItemState) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("ItemState(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ItemState) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidItemState, int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ItemState) UnmarshalText(text []byte) error {
	for v, name := range stateNames {
		if name != "" && name == string(text) {
			*s = ItemState(v)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidItemState, text)
}

// MarshalJSON implements json.Marshaler. ItemState serializes as a string.
func (s ItemState) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *ItemState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidItemState, data)
	}
	return s.UnmarshalText([]byte(str))
}
