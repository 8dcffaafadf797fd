package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/model"
	"github.com/mamer12/bunyan-construction-management-mvp-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type EnrollEngineerRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	FullName  string `json:"full_name" binding:"required"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type EngineerResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	FullName  string `json:"full_name"`
	Specialty string `json:"specialty"`
	Phone     string `json:"phone"`
}

// UserService covers identity: registration, login and the engineer roster.
// Tokens deliberately carry only the subject claim; the effective role is
// resolved per request by RoleService.
type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	EnrollEngineer(ctx context.Context, callerID string, req EnrollEngineerRequest) (*EngineerResponse, error)
	ListEngineers(ctx context.Context) ([]EngineerResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	roles     RoleService
}

func NewUserService(repo repository.UserRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, roles RoleService) UserService {
	return &userService{repo: repo, auditRepo: auditRepo, txManager: txManager, roles: roles}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key" // development fallback only
	}
	return []byte(secret)
}

func mapToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *userService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Rotate: the old token is gone once a new pair is issued
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	accessString, err := access.SignedString(jwtSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenResponse{AccessToken: accessString, RefreshToken: refresh.Token}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	user, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return mapToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapToUserResponse(&u))
	}

	return responses, total, nil
}

func (s *userService) EnrollEngineer(ctx context.Context, callerID string, req EnrollEngineerRequest) (*EngineerResponse, error) {
	if err := s.roles.RequirePermission(ctx, callerID, model.PermManageRoles); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, errors.New("user not found")
	}

	eng := &model.Engineer{
		UserID:    userID,
		FullName:  req.FullName,
		Specialty: req.Specialty,
		Phone:     req.Phone,
		Active:    true,
	}

	actor := parseActor(callerID)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if enrollErr := s.repo.EnrollEngineer(txCtx, eng); enrollErr != nil {
			return fmt.Errorf("failed to enroll engineer: %w", enrollErr)
		}

		audit := &model.AuditLog{
			UserID:     actor,
			Action:     model.ActionEnrollEngineer,
			EntityID:   eng.ID.String(),
			EntityName: eng.FullName,
			Details:    fmt.Sprintf(`{"user_id": %q, "specialty": %q}`, req.UserID, req.Specialty),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &EngineerResponse{
		ID:        eng.ID.String(),
		UserID:    eng.UserID.String(),
		FullName:  eng.FullName,
		Specialty: eng.Specialty,
		Phone:     eng.Phone,
	}, nil
}

func (s *userService) ListEngineers(ctx context.Context) ([]EngineerResponse, error) {
	engineers, err := s.repo.ListEngineers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch engineers: %w", err)
	}

	res := make([]EngineerResponse, 0, len(engineers))
	for _, e := range engineers {
		res = append(res, EngineerResponse{
			ID:        e.ID.String(),
			UserID:    e.UserID.String(),
			FullName:  e.FullName,
			Specialty: e.Specialty,
			Phone:     e.Phone,
		})
	}
	return res, nil
}
