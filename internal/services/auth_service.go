package services

import (
	"delego_backend/internal/auth"
	"delego_backend/internal/models"
	"delego_backend/internal/repositories"
	"delego_backend/internal/services/dto"
	"delego_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*models.User, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetUser(db *gorm.DB, userID uint) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*models.User, error) {
	role := models.UserRole(req.Role)
	if !role.Valid() {
		return nil, apperrors.NewBadRequestError("Role must be delegator or recipient")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(db, req.Username, req.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflictError("auth", "Username or email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return user, nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(db, req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid username or password", 401)
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "auth", "Invalid username or password", 401)
	}

	token, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		User: dto.UserInfo{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *AuthServiceImpl) GetUser(db *gorm.DB, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("auth", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
