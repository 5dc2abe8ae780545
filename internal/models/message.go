package models

// Message is one entry in a project's conversation between the delegator and
// the assigned delegate. The receiver is always the sender's counterpart.
type Message struct {
	BaseModel
	ProjectID  uint   `gorm:"not null;index" json:"project_id"`
	SenderID   uint   `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint   `gorm:"not null;index" json:"receiver_id"`
	Content    string `gorm:"type:text;not null" json:"content"`

	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Sender   User    `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User    `gorm:"foreignKey:ReceiverID" json:"-"`
}
