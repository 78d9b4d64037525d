package models

import (
	"time"
)

// ExternalEvent is an aggregator record sourced outside the organizer
// workflow. This service only reads it.
type ExternalEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Venue    string    `json:"venue"`
	City     string    `json:"city"`
	Date     time.Time `json:"date"`
	URL      string    `json:"url,omitempty"`
	Priority int       `json:"priority"`
}
