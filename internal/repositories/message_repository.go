package repositories

import (
	"delego_backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	FindByProject(db *gorm.DB, projectID uint) ([]models.Message, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

// FindByProject returns the conversation in chronological order.
func (r *MessageRepositoryImpl) FindByProject(db *gorm.DB, projectID uint) ([]models.Message, error) {
	var messages []models.Message
	err := db.Preload("Sender").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
