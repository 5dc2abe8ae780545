package services

import (
	"time"

	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type QuoteService interface {
	AvailableProjects(db *gorm.DB, recipientID uint) ([]dto.AvailableProject, error)
	CreateQuote(db *gorm.DB, recipientID, projectID uint, req *dto.CreateQuoteRequest) (*models.Quote, error)
	ListQuotes(db *gorm.DB, delegatorID, projectID uint) ([]dto.QuoteView, error)
}

type QuoteServiceImpl struct {
	quoteRepo   repositories.QuoteRepository
	projectRepo repositories.ProjectRepository
	reviewRepo  repositories.ReviewRepository
	fileRepo    repositories.FileRepository
}

func NewQuoteService(
	quoteRepo repositories.QuoteRepository,
	projectRepo repositories.ProjectRepository,
	reviewRepo repositories.ReviewRepository,
	fileRepo repositories.FileRepository,
) QuoteService {
	return &QuoteServiceImpl{
		quoteRepo:   quoteRepo,
		projectRepo: projectRepo,
		reviewRepo:  reviewRepo,
		fileRepo:    fileRepo,
	}
}

func (s *QuoteServiceImpl) AvailableProjects(db *gorm.DB, recipientID uint) ([]dto.AvailableProject, error) {
	projects, err := s.projectRepo.FindOpen(db, time.Now())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.AvailableProject, 0, len(projects))
	for i := range projects {
		p := &projects[i]

		quoteCount, err := s.projectRepo.CountQuotes(db, p.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		hasQuoted, err := s.quoteRepo.ExistsByProjectAndRecipient(db, p.ID, recipientID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		rating, err := s.reviewRepo.GetRatingStats(db, p.DelegatorID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		views = append(views, dto.AvailableProject{
			ID:              p.ID,
			Title:           p.Title,
			Description:     p.Description,
			Deadline:        p.Deadline,
			CreatedAt:       p.CreatedAt,
			DelegatorName:   p.Delegator.Username,
			DelegatorRating: rating,
			QuoteCount:      quoteCount,
			HasQuoted:       hasQuoted,
		})
	}
	return views, nil
}

// CreateQuote submits a recipient's offer. The project must still be pending
// with its quoting window open, and a recipient gets exactly one quote per
// project.
func (s *QuoteServiceImpl) CreateQuote(db *gorm.DB, recipientID, projectID uint, req *dto.CreateQuoteRequest) (*models.Quote, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}

	if project.Status != models.ProjectStatusPending {
		return nil, apperrors.NewInvalidStatusError("quote", "Project is no longer accepting quotes")
	}
	if !project.DeadlineActive(time.Now()) {
		return nil, apperrors.New(apperrors.CodeDeadlinePassed, "quote",
			"The quoting deadline for this project has passed", 400)
	}

	exists, err := s.quoteRepo.ExistsByProjectAndRecipient(db, projectID, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflictError("quote", "You have already quoted on this project")
	}

	quote := &models.Quote{
		ProjectID:   projectID,
		RecipientID: recipientID,
		Amount:      req.Amount,
		Message:     req.Message,
		Status:      models.QuoteStatusPending,
	}

	if err := s.quoteRepo.Create(db, quote); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return quote, nil
}

func (s *QuoteServiceImpl) ListQuotes(db *gorm.DB, delegatorID, projectID uint) ([]dto.QuoteView, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if project.DelegatorID != delegatorID {
		return nil, apperrors.NewForbiddenError("You do not own this project")
	}

	quotes, err := s.quoteRepo.FindByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.QuoteView, 0, len(quotes))
	for i := range quotes {
		q := &quotes[i]

		rating, err := s.reviewRepo.GetRatingStats(db, q.RecipientID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		view := dto.QuoteView{
			ID:              q.ID,
			Amount:          q.Amount,
			Message:         q.Message,
			Status:          string(q.Status),
			CreatedAt:       q.CreatedAt,
			RecipientID:     q.RecipientID,
			RecipientName:   q.Recipient.Username,
			RecipientRating: rating,
		}

		proposal, err := s.fileRepo.FindProposalByQuote(db, q.ID)
		if err == nil {
			view.ProposalFile = &dto.ProposalFileInfo{
				ID:       proposal.ID,
				Filename: proposal.Filename,
				Size:     proposal.Size,
			}
		} else if !apperrors.Is(err, repositories.ErrProposalFileNotFound) {
			return nil, apperrors.InternalError(err)
		}

		views = append(views, view)
	}
	return views, nil
}
