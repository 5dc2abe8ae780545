package services

import (
	"time"

	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProjectService interface {
	ListOwn(db *gorm.DB, delegatorID uint) ([]dto.ProjectView, error)
	Create(db *gorm.DB, delegatorID uint, req *dto.CreateProjectRequest) (*models.Project, error)
	Get(db *gorm.DB, delegatorID, projectID uint) (*dto.ProjectView, error)
	Update(db *gorm.DB, delegatorID, projectID uint, req *dto.UpdateProjectRequest) (*models.Project, error)
	Delete(db *gorm.DB, delegatorID, projectID uint) error
	SelectDelegate(db *gorm.DB, delegatorID, projectID, quoteID uint) (*models.Project, error)
	Close(db *gorm.DB, userID, projectID uint, req *dto.CloseProjectRequest) (*models.Project, error)
	History(db *gorm.DB, userID uint) ([]dto.HistoryEntry, error)
	AssignedProjects(db *gorm.DB, recipientID uint) ([]dto.ProjectView, error)
}

type ProjectServiceImpl struct {
	projectRepo repositories.ProjectRepository
	quoteRepo   repositories.QuoteRepository
	fileRepo    repositories.FileRepository
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	quoteRepo repositories.QuoteRepository,
	fileRepo repositories.FileRepository,
) ProjectService {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		quoteRepo:   quoteRepo,
		fileRepo:    fileRepo,
	}
}

// parseDeadline accepts RFC3339 or a bare date.
func parseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, apperrors.NewBadRequestError("Invalid deadline format, expected RFC3339")
}

func (s *ProjectServiceImpl) ListOwn(db *gorm.DB, delegatorID uint) ([]dto.ProjectView, error) {
	projects, err := s.projectRepo.FindByDelegator(db, delegatorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ProjectView, 0, len(projects))
	for i := range projects {
		view, err := s.buildView(db, &projects[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *ProjectServiceImpl) buildView(db *gorm.DB, project *models.Project) (*dto.ProjectView, error) {
	quoteCount, err := s.projectRepo.CountQuotes(db, project.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	view := &dto.ProjectView{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      string(project.Status),
		Deadline:    project.Deadline,
		CreatedAt:   project.CreatedAt,
		QuoteCount:  quoteCount,
		DelegateID:  project.DelegateID,
	}
	if project.Delegate != nil {
		view.DelegateName = project.Delegate.Username
	}
	return view, nil
}

func (s *ProjectServiceImpl) Create(db *gorm.DB, delegatorID uint, req *dto.CreateProjectRequest) (*models.Project, error) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		DelegatorID: delegatorID,
		Status:      models.ProjectStatusPending,
		Deadline:    deadline,
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

// findOwned loads a project and verifies delegator ownership.
func (s *ProjectServiceImpl) findOwned(db *gorm.DB, delegatorID, projectID uint) (*models.Project, error) {
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
	return project, nil
}

func (s *ProjectServiceImpl) Get(db *gorm.DB, delegatorID, projectID uint) (*dto.ProjectView, error) {
	project, err := s.findOwned(db, delegatorID, projectID)
	if err != nil {
		return nil, err
	}
	return s.buildView(db, project)
}

func (s *ProjectServiceImpl) Update(db *gorm.DB, delegatorID, projectID uint, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.findOwned(db, delegatorID, projectID)
	if err != nil {
		return nil, err
	}

	if project.Status != models.ProjectStatusPending {
		return nil, apperrors.NewInvalidStatusError("project", "Only pending projects can be edited")
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Deadline != nil {
		deadline, err := parseDeadline(*req.Deadline)
		if err != nil {
			return nil, err
		}
		project.Deadline = deadline
	}

	if err := s.projectRepo.Update(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectServiceImpl) Delete(db *gorm.DB, delegatorID, projectID uint) error {
	if _, err := s.findOwned(db, delegatorID, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(db, projectID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// SelectDelegate accepts one quote and assigns its recipient. Only allowed
// once the deadline has passed (or when none was set), and only while the
// project is still pending. Everything happens in one transaction: the
// delegate assignment, the accepted quote and the bulk rejection of the rest.
func (s *ProjectServiceImpl) SelectDelegate(db *gorm.DB, delegatorID, projectID, quoteID uint) (*models.Project, error) {
	project, err := s.findOwned(db, delegatorID, projectID)
	if err != nil {
		return nil, err
	}

	next, ok := models.NextStatus(project.Status, models.ActionSelectDelegate)
	if !ok {
		return nil, apperrors.NewInvalidStatusError("project", "Delegate can only be selected on a pending project")
	}

	if project.Deadline != nil && time.Now().Before(*project.Deadline) {
		return nil, apperrors.New(apperrors.CodeDeadlineActive, "project",
			"Cannot select a delegate before the deadline has passed", 400)
	}

	quote, err := s.quoteRepo.FindByID(db, quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return nil, apperrors.NewNotFoundError("quote", "Quote not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if quote.ProjectID != project.ID {
		return nil, apperrors.NewBadRequestError("Quote does not belong to this project")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		project.DelegateID = &quote.RecipientID
		project.Status = next
		if err := s.projectRepo.Update(tx, project); err != nil {
			return err
		}
		if err := s.quoteRepo.UpdateStatus(tx, quote.ID, models.QuoteStatusAccepted); err != nil {
			return err
		}
		return s.quoteRepo.RejectOthers(tx, project.ID, quote.ID)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return project, nil
}

// Close handles the accept/return decision on submitted closure files.
// Accept moves the project to closed and marks the targeted file (or every
// pending one) accepted; return marks files returned and leaves the status
// alone so the recipient can resubmit.
func (s *ProjectServiceImpl) Close(db *gorm.DB, userID, projectID uint, req *dto.CloseProjectRequest) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if !project.IsParticipant(userID) {
		return nil, apperrors.NewForbiddenError("You are not a participant of this project")
	}

	var targetFile *models.ClosureFile
	if req.FileID != nil {
		targetFile, err = s.fileRepo.FindClosureByID(db, *req.FileID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrClosureFileNotFound) {
				return nil, apperrors.NewNotFoundError("file", "Closure file not found")
			}
			return nil, apperrors.InternalError(err)
		}
		if targetFile.ProjectID != project.ID {
			return nil, apperrors.NewBadRequestError("File does not belong to this project")
		}
	}

	switch req.Action {
	case "accept":
		next, ok := models.NextStatus(project.Status, models.ActionCloseAccept)
		if !ok {
			return nil, apperrors.NewInvalidStatusError("project", "Only an active project can be closed")
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			project.Status = next
			if err := s.projectRepo.Update(tx, project); err != nil {
				return err
			}
			if targetFile != nil {
				return s.fileRepo.UpdateClosureStatus(tx, targetFile.ID, models.ClosureFileStatusAccepted)
			}
			return s.fileRepo.UpdatePendingClosureStatuses(tx, project.ID, models.ClosureFileStatusAccepted)
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

	case "return":
		err = db.Transaction(func(tx *gorm.DB) error {
			if targetFile != nil {
				return s.fileRepo.UpdateClosureStatus(tx, targetFile.ID, models.ClosureFileStatusReturned)
			}
			return s.fileRepo.UpdatePendingClosureStatuses(tx, project.ID, models.ClosureFileStatusReturned)
		})
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

	default:
		return nil, apperrors.NewBadRequestError("Action must be accept or return")
	}

	return project, nil
}

func (s *ProjectServiceImpl) History(db *gorm.DB, userID uint) ([]dto.HistoryEntry, error) {
	projects, err := s.projectRepo.FindFinishedByParticipant(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	entries := make([]dto.HistoryEntry, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		entry := dto.HistoryEntry{
			ID:            p.ID,
			Title:         p.Title,
			Status:        string(p.Status),
			Deadline:      p.Deadline,
			CreatedAt:     p.CreatedAt,
			DelegatorName: p.Delegator.Username,
		}
		if p.Delegate != nil {
			entry.DelegateName = p.Delegate.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AssignedProjects lists the projects a recipient was selected for.
func (s *ProjectServiceImpl) AssignedProjects(db *gorm.DB, recipientID uint) ([]dto.ProjectView, error) {
	projects, err := s.projectRepo.FindByDelegate(db, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ProjectView, 0, len(projects))
	for i := range projects {
		view, err := s.buildView(db, &projects[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
