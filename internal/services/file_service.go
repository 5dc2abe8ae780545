package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/internal/storage"
	"delego_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DownloadResult carries an opened file stream with the metadata the handler
// needs to serve it. The caller must close Reader.
type DownloadResult struct {
	Reader      io.ReadCloser
	Filename    string
	ContentType string
	Size        int64
}

type FileService interface {
	UploadProposal(ctx context.Context, db *gorm.DB, recipientID, quoteID uint, header *multipart.FileHeader) (*models.ProposalFile, error)
	UploadClosure(ctx context.Context, db *gorm.DB, recipientID, projectID uint, header *multipart.FileHeader) (*models.ClosureFile, error)
	ListClosureFiles(db *gorm.DB, userID, projectID uint) ([]dto.ClosureFileView, error)
	Download(ctx context.Context, db *gorm.DB, userID, fileID uint, fileType string) (*DownloadResult, error)
}

type FileServiceImpl struct {
	fileRepo    repositories.FileRepository
	quoteRepo   repositories.QuoteRepository
	projectRepo repositories.ProjectRepository
	store       storage.Storage
	maxSize     int64
}

func NewFileService(
	fileRepo repositories.FileRepository,
	quoteRepo repositories.QuoteRepository,
	projectRepo repositories.ProjectRepository,
	store storage.Storage,
	maxSize int64,
) FileService {
	return &FileServiceImpl{
		fileRepo:    fileRepo,
		quoteRepo:   quoteRepo,
		projectRepo: projectRepo,
		store:       store,
		maxSize:     maxSize,
	}
}

// UploadProposal attaches a PDF to the recipient's own quote. Re-uploading
// replaces the previous record; the old bytes stay orphaned in storage.
func (s *FileServiceImpl) UploadProposal(ctx context.Context, db *gorm.DB, recipientID, quoteID uint, header *multipart.FileHeader) (*models.ProposalFile, error) {
	quote, err := s.quoteRepo.FindByID(db, quoteID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrQuoteNotFound) {
			return nil, apperrors.NewNotFoundError("quote", "Quote not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if quote.RecipientID != recipientID {
		return nil, apperrors.NewForbiddenError("You do not own this quote")
	}

	project, err := s.projectRepo.FindByID(db, quote.ProjectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !project.DeadlineActive(time.Now()) {
		return nil, apperrors.New(apperrors.CodeDeadlinePassed, "file",
			"The quoting deadline for this project has passed", 400)
	}

	if err := s.checkSize(header); err != nil {
		return nil, err
	}

	// Proposals are PDF only: both the extension and the declared content
	// type must say so.
	contentType := header.Header.Get("Content-Type")
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") || contentType != "application/pdf" {
		return nil, apperrors.NewBadRequestError("Proposal must be a PDF file")
	}

	storedPath := fmt.Sprintf("proposals/%s.pdf", uuid.NewString())
	if err := s.saveUpload(ctx, header, storedPath, contentType); err != nil {
		return nil, err
	}

	file := &models.ProposalFile{
		QuoteID:     quoteID,
		UploaderID:  recipientID,
		Filename:    header.Filename,
		StoredPath:  storedPath,
		ContentType: contentType,
		Size:        header.Size,
	}

	if err := s.fileRepo.SaveProposal(db, file); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return file, nil
}

// UploadClosure stores the next version of the assigned recipient's
// deliverable on an active project.
func (s *FileServiceImpl) UploadClosure(ctx context.Context, db *gorm.DB, recipientID, projectID uint, header *multipart.FileHeader) (*models.ClosureFile, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.NewNotFoundError("project", "Project not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if project.DelegateID == nil || *project.DelegateID != recipientID {
		return nil, apperrors.NewForbiddenError("You are not assigned to this project")
	}
	if project.Status != models.ProjectStatusActive {
		return nil, apperrors.NewInvalidStatusError("file", "Closure files can only be submitted on an active project")
	}

	if err := s.checkSize(header); err != nil {
		return nil, err
	}

	version, err := s.fileRepo.NextClosureVersion(db, projectID, recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storedPath := fmt.Sprintf("closures/%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	if err := s.saveUpload(ctx, header, storedPath, contentType); err != nil {
		return nil, err
	}

	file := &models.ClosureFile{
		ProjectID:  projectID,
		UploaderID: recipientID,
		Filename:   header.Filename,
		StoredPath: storedPath,
		Version:    &version,
		Status:     models.ClosureFileStatusPending,
	}

	if err := s.fileRepo.CreateClosure(db, file); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return file, nil
}

func (s *FileServiceImpl) checkSize(header *multipart.FileHeader) error {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return apperrors.NewBadRequestError(fmt.Sprintf("File exceeds the maximum size of %d bytes", s.maxSize))
	}
	return nil
}

func (s *FileServiceImpl) saveUpload(ctx context.Context, header *multipart.FileHeader, storedPath, contentType string) error {
	src, err := header.Open()
	if err != nil {
		return apperrors.InternalError(err)
	}
	defer src.Close()

	if err := s.store.Save(ctx, storedPath, src, contentType); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, "file", "Failed to store file", 500)
	}
	return nil
}

func (s *FileServiceImpl) ListClosureFiles(db *gorm.DB, userID, projectID uint) ([]dto.ClosureFileView, error) {
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

	files, err := s.fileRepo.FindClosuresByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ClosureFileView, 0, len(files))
	for i := range files {
		f := &files[i]
		views = append(views, dto.ClosureFileView{
			ID:           f.ID,
			Filename:     f.Filename,
			Version:      f.DisplayVersion(),
			Status:       string(f.Status),
			UploaderID:   f.UploaderID,
			UploaderName: f.Uploader.Username,
			CreatedAt:    f.CreatedAt,
		})
	}
	return views, nil
}

// Download streams a stored file to an authorized reader: the uploader or the
// project's delegator. Metadata without bytes in storage is reported as not
// found.
func (s *FileServiceImpl) Download(ctx context.Context, db *gorm.DB, userID, fileID uint, fileType string) (*DownloadResult, error) {
	var (
		storedPath  string
		filename    string
		contentType string
		uploaderID  uint
		projectID   uint
	)

	switch fileType {
	case "proposal":
		file, err := s.fileRepo.FindProposalByID(db, fileID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProposalFileNotFound) {
				return nil, apperrors.NewNotFoundError("file", "File not found")
			}
			return nil, apperrors.InternalError(err)
		}
		quote, err := s.quoteRepo.FindByID(db, file.QuoteID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		storedPath = file.StoredPath
		filename = file.Filename
		contentType = file.ContentType
		uploaderID = file.UploaderID
		projectID = quote.ProjectID

	case "closure":
		file, err := s.fileRepo.FindClosureByID(db, fileID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrClosureFileNotFound) {
				return nil, apperrors.NewNotFoundError("file", "File not found")
			}
			return nil, apperrors.InternalError(err)
		}
		storedPath = file.StoredPath
		filename = file.Filename
		contentType = "application/octet-stream"
		uploaderID = file.UploaderID
		projectID = file.ProjectID

	default:
		return nil, apperrors.NewBadRequestError("file_type must be proposal or closure")
	}

	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if userID != uploaderID && userID != project.DelegatorID {
		return nil, apperrors.NewForbiddenError("You are not allowed to download this file")
	}

	exists, err := s.store.Exists(ctx, storedPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "file", "Failed to check file", 500)
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("file", "File data is missing from storage")
	}

	size, err := s.store.GetSize(ctx, storedPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "file", "Failed to stat file", 500)
	}

	reader, err := s.store.Get(ctx, storedPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "file", "Failed to read file", 500)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &DownloadResult{
		Reader:      reader,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
	}, nil
}
