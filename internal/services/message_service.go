package services

import (
	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MessageService interface {
	List(db *gorm.DB, userID, projectID uint) ([]dto.MessageView, error)
	Send(db *gorm.DB, userID, projectID uint, req *dto.SendMessageRequest) (*models.Message, error)
}

type MessageServiceImpl struct {
	messageRepo repositories.MessageRepository
	projectRepo repositories.ProjectRepository
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	projectRepo repositories.ProjectRepository,
) MessageService {
	return &MessageServiceImpl{
		messageRepo: messageRepo,
		projectRepo: projectRepo,
	}
}

func (s *MessageServiceImpl) findForParticipant(db *gorm.DB, userID, projectID uint) (*models.Project, error) {
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
	return project, nil
}

func (s *MessageServiceImpl) List(db *gorm.DB, userID, projectID uint) ([]dto.MessageView, error) {
	if _, err := s.findForParticipant(db, userID, projectID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		views = append(views, dto.MessageView{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: m.Sender.Username,
			ReceiverID: m.ReceiverID,
			Content:    m.Content,
			CreatedAt:  m.CreatedAt,
		})
	}
	return views, nil
}

// Send appends a message; the receiver is always the sender's assigned
// counterpart, so messaging is impossible until a delegate is selected.
func (s *MessageServiceImpl) Send(db *gorm.DB, userID, projectID uint, req *dto.SendMessageRequest) (*models.Message, error) {
	project, err := s.findForParticipant(db, userID, projectID)
	if err != nil {
		return nil, err
	}

	receiverID, ok := project.OtherParty(userID)
	if !ok {
		return nil, apperrors.NewBadRequestError("No delegate assigned to this project yet")
	}

	message := &models.Message{
		ProjectID:  projectID,
		SenderID:   userID,
		ReceiverID: receiverID,
		Content:    req.Content,
	}

	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return message, nil
}
