package domain

import "time"

const IngestEventType = "rdmc.ingested"

// IngestEvent is published after an ingest commits.
type IngestEvent struct {
	Type              string    `json:"type"`
	ExternalID        string    `json:"external_id"`
	Title             string    `json:"title"`
	Created           bool      `json:"created"`
	ContributorsCount int       `json:"contributors_count"`
	At                time.Time `json:"at"`
}

// NewIngestEvent builds the event announcing that r was written.
func NewIngestEvent(r Rdmc, created bool) IngestEvent {
	return IngestEvent{
		Type:              IngestEventType,
		ExternalID:        r.ExternalID,
		Title:             r.Title,
		Created:           created,
		ContributorsCount: r.ContributorsCount,
		At:                r.UpdatedAt,
	}
}
