package repositories

import (
	"errors"

	"delego_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalFileNotFound = errors.New("proposal file not found")
	ErrClosureFileNotFound  = errors.New("closure file not found")
)

type FileRepository interface {
	// Proposal files
	SaveProposal(db *gorm.DB, file *models.ProposalFile) error
	FindProposalByID(db *gorm.DB, id uint) (*models.ProposalFile, error)
	FindProposalByQuote(db *gorm.DB, quoteID uint) (*models.ProposalFile, error)

	// Closure files
	CreateClosure(db *gorm.DB, file *models.ClosureFile) error
	FindClosureByID(db *gorm.DB, id uint) (*models.ClosureFile, error)
	FindClosuresByProject(db *gorm.DB, projectID uint) ([]models.ClosureFile, error)
	NextClosureVersion(db *gorm.DB, projectID, uploaderID uint) (int, error)
	UpdateClosureStatus(db *gorm.DB, id uint, status models.ClosureFileStatus) error
	UpdatePendingClosureStatuses(db *gorm.DB, projectID uint, status models.ClosureFileStatus) error
}

type FileRepositoryImpl struct{}

func NewFileRepository() FileRepository {
	return &FileRepositoryImpl{}
}

// SaveProposal inserts the quote's proposal record, or overwrites it in place
// when one already exists. The previously stored bytes are left behind.
func (r *FileRepositoryImpl) SaveProposal(db *gorm.DB, file *models.ProposalFile) error {
	var existing models.ProposalFile
	err := db.Where("quote_id = ?", file.QuoteID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Create(file).Error
		}
		return err
	}

	file.ID = existing.ID
	file.CreatedAt = existing.CreatedAt
	return db.Save(file).Error
}

func (r *FileRepositoryImpl) FindProposalByID(db *gorm.DB, id uint) (*models.ProposalFile, error) {
	var file models.ProposalFile
	err := db.First(&file, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) FindProposalByQuote(db *gorm.DB, quoteID uint) (*models.ProposalFile, error) {
	var file models.ProposalFile
	err := db.Where("quote_id = ?", quoteID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) CreateClosure(db *gorm.DB, file *models.ClosureFile) error {
	return db.Create(file).Error
}

func (r *FileRepositoryImpl) FindClosureByID(db *gorm.DB, id uint) (*models.ClosureFile, error) {
	var file models.ClosureFile
	err := db.First(&file, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClosureFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// FindClosuresByProject lists newest version first. NULL versions sort as 0
// so they land at the bottom regardless of timestamps.
func (r *FileRepositoryImpl) FindClosuresByProject(db *gorm.DB, projectID uint) ([]models.ClosureFile, error) {
	var files []models.ClosureFile
	err := db.Preload("Uploader").
		Where("project_id = ?", projectID).
		Order("COALESCE(version, 0) DESC, created_at DESC").
		Find(&files).Error
	return files, err
}

// NextClosureVersion computes 1 + the highest version this uploader has on
// the project.
func (r *FileRepositoryImpl) NextClosureVersion(db *gorm.DB, projectID, uploaderID uint) (int, error) {
	var maxVersion int
	err := db.Model(&models.ClosureFile{}).
		Where("project_id = ? AND uploader_id = ?", projectID, uploaderID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

func (r *FileRepositoryImpl) UpdateClosureStatus(db *gorm.DB, id uint, status models.ClosureFileStatus) error {
	result := db.Model(&models.ClosureFile{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrClosureFileNotFound
	}
	return nil
}

// UpdatePendingClosureStatuses moves every still-pending closure file on the
// project to the given status.
func (r *FileRepositoryImpl) UpdatePendingClosureStatuses(db *gorm.DB, projectID uint, status models.ClosureFileStatus) error {
	return db.Model(&models.ClosureFile{}).
		Where("project_id = ? AND status = ?", projectID, models.ClosureFileStatusPending).
		Update("status", status).Error
}
