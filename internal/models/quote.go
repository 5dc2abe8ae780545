package models

type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Quote is a recipient's offer on a pending project. One quote per recipient
// per project; selecting one accepts it and rejects all others atomically.
type Quote struct {
	BaseModel
	ProjectID   uint        `gorm:"not null;index;uniqueIndex:idx_quote_project_recipient" json:"project_id"`
	RecipientID uint        `gorm:"not null;index;uniqueIndex:idx_quote_project_recipient" json:"recipient_id"`
	Amount      float64     `gorm:"not null" json:"amount"`
	Message     string      `gorm:"type:text" json:"message"`
	Status      QuoteStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User    `gorm:"foreignKey:RecipientID" json:"-"`
}
