package ioplan

import (
	"errors"
	"strings"
	"time"
)

// Project is the engineering project owning a set of points and cards.
type Project struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Client        string    `json:"client,omitempty"`
	Engineer      string    `json:"engineer,omitempty"`
	MajorRevision string    `json:"major_revision"`
	MinorRevision int       `json:"minor_revision"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks project invariants.
func (p Project) Validate() error {
	if p.ID == "" {
		return errors.New("project: empty id")
	}
	if p.TenantID == "" {
		return errors.New("project: empty tenant id")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project: empty name")
	}
	return nil
}
