package queue

import "time"

// ScanTask asks a worker to run a full detection pass over a captured page.
type ScanTask struct {
	ID          string    `json:"id"`
	PageURL     string    `json:"page_url"`
	HTML        string    `json:"html"`
	TriggeredBy string    `json:"triggered_by,omitempty"` // initial, mutation, click, play
	CreatedAt   time.Time `json:"created_at"`
}

// ScanResultMsg carries the outcome of one scan back to interested consumers.
type ScanResultMsg struct {
	TaskID     string    `json:"task_id"`
	PageURL    string    `json:"page_url"`
	Location   string    `json:"location"`
	Generation uint64    `json:"generation"`
	Count      int       `json:"count"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// RescanSignal is a raw page-change event. The rescan worker debounces these
// before scheduling a new scan.
type RescanSignal struct {
	PageURL   string    `json:"page_url"`
	Kind      string    `json:"kind"` // mutation, click, play
	TargetTag string    `json:"target_tag,omitempty"`
	Attribute string    `json:"attribute,omitempty"`
	Markup    string    `json:"markup,omitempty"`
	HTML      string    `json:"html,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// BadgeUpdate tells UI consumers how many videos the latest snapshot holds.
type BadgeUpdate struct {
	PageURL string `json:"page_url"`
	Count   int    `json:"count"`
}
