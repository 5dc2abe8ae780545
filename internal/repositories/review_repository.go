package repositories

import (
	"errors"
	"math"
	"time"

	"delego_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this project")
)

// RatingStats is the aggregate a user's profile exposes.
type RatingStats struct {
	Average float64        `json:"average"`
	Count   int64          `json:"count"`
	Reviews []RecentReview `json:"reviews"`
}

// RecentReview is one of the newest comments shown alongside the aggregate.
type RecentReview struct {
	Comment   string    `json:"comment"`
	Average   float64   `json:"average"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByProjectAndReviewer(db *gorm.DB, projectID, reviewerID uint) (*models.Review, error)
	ExistsByProjectAndReviewer(db *gorm.DB, projectID, reviewerID uint) (bool, error)
	FindByReviewee(db *gorm.DB, revieweeID uint) ([]models.Review, error)
	GetRatingStats(db *gorm.DB, revieweeID uint) (*RatingStats, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	var existing models.Review
	err := db.Where("project_id = ? AND reviewer_id = ?", review.ProjectID, review.ReviewerID).
		First(&existing).Error
	if err == nil {
		return ErrReviewAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByProjectAndReviewer(db *gorm.DB, projectID, reviewerID uint) (*models.Review, error) {
	var review models.Review
	err := db.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ExistsByProjectAndReviewer(db *gorm.DB, projectID, reviewerID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Review{}).
		Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepositoryImpl) FindByReviewee(db *gorm.DB, revieweeID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").
		Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// GetRatingStats aggregates a user's received reviews: mean of the stored
// per-review averages rounded to one decimal, total count, and the five
// newest comments. A user with no reviews gets {0.0, 0, []}.
func (r *ReviewRepositoryImpl) GetRatingStats(db *gorm.DB, revieweeID uint) (*RatingStats, error) {
	stats := &RatingStats{Reviews: []RecentReview{}}

	if err := db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Count(&stats.Count).Error; err != nil {
		return nil, err
	}

	if stats.Count == 0 {
		return stats, nil
	}

	var avg float64
	if err := db.Model(&models.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Select("COALESCE(AVG(average_rating), 0)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.Average = math.Round(avg*10) / 10

	var recent []models.Review
	if err := db.Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	for _, review := range recent {
		stats.Reviews = append(stats.Reviews, RecentReview{
			Comment:   review.Comment,
			Average:   review.AverageRating,
			CreatedAt: review.CreatedAt,
		})
	}

	return stats, nil
}
