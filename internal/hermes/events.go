package hermes

import "time"

type RunCompletedEvent struct {
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	Alternatives int       `json:"alternatives"`
	Criteria     int       `json:"criteria"`
	Weights      string    `json:"weights"`
	Impacts      string    `json:"impacts"`
	Best         []string  `json:"best"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

type RunFailedEvent struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Kind      string    `json:"kind"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RunDeliveredEvent is published after a result was handed to a delivery
// channel such as mail.
type RunDeliveredEvent struct {
	RunID     string    `json:"run_id"`
	Channel   string    `json:"channel"`
	Recipient string    `json:"recipient"`
	Timestamp time.Time `json:"timestamp"`
}
