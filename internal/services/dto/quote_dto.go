package dto

import (
	"time"

	"delego_backend/internal/repositories"
)

type CreateQuoteRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message" validate:"max=2000"`
}

// ProposalFileInfo is the proposal metadata embedded in a quote listing.
type ProposalFileInfo struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// QuoteView is a quote as the project's delegator sees it.
type QuoteView struct {
	ID              uint                      `json:"id"`
	Amount          float64                   `json:"amount"`
	Message         string                    `json:"message"`
	Status          string                    `json:"status"`
	CreatedAt       time.Time                 `json:"created_at"`
	RecipientID     uint                      `json:"recipient_id"`
	RecipientName   string                    `json:"recipient_name"`
	RecipientRating *repositories.RatingStats `json:"recipient_rating"`
	ProposalFile    *ProposalFileInfo         `json:"proposal_file"`
}
