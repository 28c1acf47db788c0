// Package models defines investigation records: user-curated collections of
// graph node references with free-text metadata.
package models

import "time"

// Status values an investigation can carry. The field is free text in
// updates; these are the conventional values.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// NodeRef points at one graph node captured in an investigation.
type NodeRef struct {
	ID    string `json:"id"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`
}

// Investigation is a named collection of node references.
type Investigation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Nodes       []NodeRef `json:"nodes"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
