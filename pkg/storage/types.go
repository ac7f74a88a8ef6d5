package storage

import "time"

// Conversion is one finished conversion as kept in the history.
type Conversion struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`

	// What was shared
	Input  string `json:"input"`
	Text   string `json:"text"`
	Link   string `json:"link,omitempty"`
	Domain string `json:"domain,omitempty"`

	// Outcome
	Status  string `json:"status"` // succeeded | failed
	Failure string `json:"failure,omitempty"`

	// Main point in WGS84, when there is one
	HasPoint bool    `json:"has_point"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	Name     string  `json:"name,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
	Q        string  `json:"q,omitempty"`
	Points   int     `json:"points"`
}

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// InputStats summarises the history of one input.
type InputStats struct {
	Input     string `json:"input"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}

// DomainStats counts conversions per registrable domain of the shared link.
type DomainStats struct {
	Domain string `json:"domain"`
	Total  int    `json:"total"`
}
