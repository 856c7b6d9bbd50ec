package surveys

import "github.com/mitchsmii/EllaRises/internal/domain"

// OccurrenceResult is the per-occurrence outcome of one dispatch run.
type OccurrenceResult struct {
	OccurrenceID domain.OccurrenceID `json:"occurrenceId"`
	Title        string              `json:"title"`
	Recipients   int                 `json:"recipients"`
	Sent         int                 `json:"sent"`
	Failed       int                 `json:"failed"`
	Err          string              `json:"error,omitempty"`
}

// Summary is the structured result of one dispatch run.
type Summary struct {
	RunID           string             `json:"runId"`
	EventsProcessed int                `json:"eventsProcessed"`
	TotalEmailsSent int                `json:"totalEmailsSent"`
	Results         []OccurrenceResult `json:"results"`
}
