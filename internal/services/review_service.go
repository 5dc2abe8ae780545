package services

import (
	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReviewService interface {
	Create(db *gorm.DB, reviewerID, projectID uint, req *dto.CreateReviewRequest) (*models.Review, error)
	RatingStats(db *gorm.DB, userID uint) (*repositories.RatingStats, error)
}

type ReviewServiceImpl struct {
	reviewRepo  repositories.ReviewRepository
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Create records a participant's review of the other party on a closed
// project. One review per (project, reviewer); the average of the three
// dimensions is stored unrounded.
func (s *ReviewServiceImpl) Create(db *gorm.DB, reviewerID, projectID uint, req *dto.CreateReviewRequest) (*models.Review, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !project.IsParticipant(reviewerID) {
		return nil, apperrors.NewForbiddenError("You are not a participant of this project")
	}
	if project.Status != models.ProjectStatusClosed {
		return nil, apperrors.NewInvalidStatusError("review", "Reviews can only be left on a closed project")
	}

	revieweeID, ok := project.OtherParty(reviewerID)
	if !ok {
		return nil, apperrors.NewBadRequestError("No counterpart to review on this project")
	}

	review := &models.Review{
		ProjectID:     projectID,
		ReviewerID:    reviewerID,
		RevieweeID:    revieweeID,
		Dimension1:    req.Dimension1,
		Dimension2:    req.Dimension2,
		Dimension3:    req.Dimension3,
		Comment:       req.Comment,
		AverageRating: float64(req.Dimension1+req.Dimension2+req.Dimension3) / 3,
	}

	if err := s.reviewRepo.Create(db, review); err != nil {
		if apperrors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.NewConflictError("review", "You have already reviewed this project")
		}
		return nil, apperrors.InternalError(err)
	}
	return review, nil
}

func (s *ReviewServiceImpl) RatingStats(db *gorm.DB, userID uint) (*repositories.RatingStats, error) {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("review", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	stats, err := s.reviewRepo.GetRatingStats(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}
