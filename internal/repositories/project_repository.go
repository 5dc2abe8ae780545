package repositories

import (
	"errors"
	"time"

	"delego_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id uint) (*models.Project, error)
	FindByDelegator(db *gorm.DB, delegatorID uint) ([]models.Project, error)
	FindByDelegate(db *gorm.DB, delegateID uint) ([]models.Project, error)
	FindOpen(db *gorm.DB, now time.Time) ([]models.Project, error)
	FindFinishedByParticipant(db *gorm.DB, userID uint) ([]models.Project, error)
	Update(db *gorm.DB, project *models.Project) error
	Delete(db *gorm.DB, id uint) error
	CountQuotes(db *gorm.DB, projectID uint) (int64, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Delegator").Preload("Delegate").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByDelegator(db *gorm.DB, delegatorID uint) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Delegate").
		Where("delegator_id = ?", delegatorID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) FindByDelegate(db *gorm.DB, delegateID uint) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Delegator").
		Where("delegate_id = ?", delegateID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindOpen lists projects a recipient may still quote on: pending and either
// without a deadline or with the deadline in the future.
func (r *ProjectRepositoryImpl) FindOpen(db *gorm.DB, now time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Delegator").
		Where("status = ?", models.ProjectStatusPending).
		Where("deadline IS NULL OR deadline > ?", now).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// FindFinishedByParticipant lists a user's completed or closed projects,
// whether they were the delegator or the delegate.
func (r *ProjectRepositoryImpl) FindFinishedByParticipant(db *gorm.DB, userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := db.Preload("Delegator").Preload("Delegate").
		Where("delegator_id = ? OR delegate_id = ?", userID, userID).
		Where("status IN ?", []models.ProjectStatus{models.ProjectStatusCompleted, models.ProjectStatusClosed}).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Update(db *gorm.DB, project *models.Project) error {
	return db.Save(project).Error
}

func (r *ProjectRepositoryImpl) Delete(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) CountQuotes(db *gorm.DB, projectID uint) (int64, error) {
	var count int64
	err := db.Model(&models.Quote{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
