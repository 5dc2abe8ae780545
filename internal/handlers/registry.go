package handlers

import (
	"delego_backend/internal/auth"
	"delego_backend/internal/services"
	"delego_backend/internal/validator"
)

// AppHandlers holds every HTTP handler for route registration.
type AppHandlers struct {
	Auth    *AuthHandler
	Project *ProjectHandler
	Quote   *QuoteHandler
	Message *MessageHandler
	File    *FileHandler
	Review  *ReviewHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator, tokens *auth.TokenManager) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:    NewAuthHandler(base, sc.AuthService, tokens),
		Project: NewProjectHandler(base, sc.ProjectService),
		Quote:   NewQuoteHandler(base, sc.QuoteService),
		Message: NewMessageHandler(base, sc.MessageService),
		File:    NewFileHandler(base, sc.FileService),
		Review:  NewReviewHandler(base, sc.ReviewService),
	}
}
