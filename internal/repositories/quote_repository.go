package repositories

import (
	"errors"

	"delego_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrQuoteNotFound      = errors.New("quote not found")
	ErrQuoteAlreadyExists = errors.New("quote already submitted for this project")
)

type QuoteRepository interface {
	Create(db *gorm.DB, quote *models.Quote) error
	FindByID(db *gorm.DB, id uint) (*models.Quote, error)
	FindByProject(db *gorm.DB, projectID uint) ([]models.Quote, error)
	FindByProjectAndRecipient(db *gorm.DB, projectID, recipientID uint) (*models.Quote, error)
	ExistsByProjectAndRecipient(db *gorm.DB, projectID, recipientID uint) (bool, error)
	UpdateStatus(db *gorm.DB, id uint, status models.QuoteStatus) error
	RejectOthers(db *gorm.DB, projectID, acceptedQuoteID uint) error
}

type QuoteRepositoryImpl struct{}

func NewQuoteRepository() QuoteRepository {
	return &QuoteRepositoryImpl{}
}

func (r *QuoteRepositoryImpl) Create(db *gorm.DB, quote *models.Quote) error {
	return db.Create(quote).Error
}

func (r *QuoteRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Quote, error) {
	var quote models.Quote
	err := db.Preload("Recipient").First(&quote, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepositoryImpl) FindByProject(db *gorm.DB, projectID uint) ([]models.Quote, error) {
	var quotes []models.Quote
	err := db.Preload("Recipient").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

func (r *QuoteRepositoryImpl) FindByProjectAndRecipient(db *gorm.DB, projectID, recipientID uint) (*models.Quote, error) {
	var quote models.Quote
	err := db.Where("project_id = ? AND recipient_id = ?", projectID, recipientID).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepositoryImpl) ExistsByProjectAndRecipient(db *gorm.DB, projectID, recipientID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Quote{}).
		Where("project_id = ? AND recipient_id = ?", projectID, recipientID).
		Count(&count).Error
	return count > 0, err
}

func (r *QuoteRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.QuoteStatus) error {
	result := db.Model(&models.Quote{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// RejectOthers marks every quote on the project except the accepted one as
// rejected, in a single UPDATE.
func (r *QuoteRepositoryImpl) RejectOthers(db *gorm.DB, projectID, acceptedQuoteID uint) error {
	return db.Model(&models.Quote{}).
		Where("project_id = ? AND id <> ?", projectID, acceptedQuoteID).
		Update("status", models.QuoteStatusRejected).Error
}
