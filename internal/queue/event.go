// Package queue defines message payloads exchanged over the message
// broker, the best-effort publisher, and the background consumer that
// turns accepted submissions into an audit log.
package queue

// EntryRecordedEvent is published after a submission has committed. It
// carries enough information for downstream consumers to log or trigger
// analytics without querying the primary database.
type EntryRecordedEvent struct {
	EntryID         uint64  `json:"entry_id"`
	UserID          uint64  `json:"user_id"`
	Username        string  `json:"username"`
	Kind            string  `json:"kind"`
	Category        string  `json:"category"`
	Quantity        float64 `json:"quantity"`
	CarbonEmissions float64 `json:"carbon_emissions"`
	CreditsEarned   int64   `json:"credits_earned"`
	Date            string  `json:"date"`
	RecordedAt      string  `json:"recorded_at"`
}
