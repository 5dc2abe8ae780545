package dto

import "time"

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

type MessageView struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	ReceiverID uint      `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
