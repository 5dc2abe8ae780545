package dto

import (
	"time"

	"delego_backend/internal/repositories"
)

type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=1"`
	// RFC3339; empty means no deadline.
	Deadline string `json:"deadline"`
}

// UpdateProjectRequest uses pointers so a client can distinguish "leave as
// is" (field absent) from "clear it" (empty string for Deadline).
type UpdateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Deadline    *string `json:"deadline"`
}

type SelectDelegateRequest struct {
	QuoteID uint `json:"quote_id" validate:"required"`
}

type CloseProjectRequest struct {
	Action string `json:"action" validate:"required,oneof=accept return"`
	FileID *uint  `json:"file_id"`
}

// ProjectView is a delegator's own project with listing annotations.
type ProjectView struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Deadline     *time.Time `json:"deadline"`
	CreatedAt    time.Time  `json:"created_at"`
	QuoteCount   int64      `json:"quote_count"`
	DelegateID   *uint      `json:"delegate_id"`
	DelegateName string     `json:"delegate_name,omitempty"`
}

// AvailableProject is an open project as a recipient sees it.
type AvailableProject struct {
	ID              uint                      `json:"id"`
	Title           string                    `json:"title"`
	Description     string                    `json:"description"`
	Deadline        *time.Time                `json:"deadline"`
	CreatedAt       time.Time                 `json:"created_at"`
	DelegatorName   string                    `json:"delegator_name"`
	DelegatorRating *repositories.RatingStats `json:"delegator_rating"`
	QuoteCount      int64                     `json:"quote_count"`
	HasQuoted       bool                      `json:"has_quoted"`
}

// HistoryEntry is one finished project in a user's history.
type HistoryEntry struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	Deadline      *time.Time `json:"deadline"`
	CreatedAt     time.Time  `json:"created_at"`
	DelegatorName string     `json:"delegator_name"`
	DelegateName  string     `json:"delegate_name,omitempty"`
}
