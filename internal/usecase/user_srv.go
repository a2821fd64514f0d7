package usecase

import (
	"context"
	"fmt"
	"time"

	"heart-predict/internal/data/entity"
	"heart-predict/internal/data/repository"
	"heart-predict/internal/dto/request"
	"heart-predict/internal/dto/response"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID int64) error
	UpdateRole(ctx context.Context, userID int64, req *request.UpdateRoleRequest) (*response.UserResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	users, err := us.repo.User.FindAll(ctx, limit, offset)
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", limit),
		)
		return nil, fmt.Errorf("failed to get users")
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users")
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Debug("Users retrieved",
		zap.Int("count", len(users)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
		zap.Int("per_page", limit),
	)

	return response.NewPaginatedResponse(userResponses, req.Page, limit, total), nil
}

// DeleteUser soft-deletes the account and revokes its sessions.
func (us *userService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to get user for delete", zap.Error(err), zap.Int64("id", userID))
		return fmt.Errorf("failed to delete user")
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if err := us.repo.User.Delete(ctx, userID); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.Int64("id", userID))
		return fmt.Errorf("failed to delete user")
	}

	if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		us.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.Int64("id", userID))
	}

	us.log.Info("User deleted", zap.Int64("user_id", userID), zap.String("email", user.Email))
	return nil
}

func (us *userService) UpdateRole(ctx context.Context, userID int64, req *request.UpdateRoleRequest) (*response.UserResponse, error) {
	role := entity.UserRole(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to get user for role change", zap.Error(err), zap.Int64("id", userID))
		return nil, fmt.Errorf("failed to update role")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Role = role
	user.UpdatedAt = time.Now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update role", zap.Error(err), zap.Int64("id", userID))
		return nil, fmt.Errorf("failed to update role")
	}

	us.log.Info("User role changed", zap.Int64("user_id", userID), zap.String("role", req.Role))

	resp := response.UserToResponse(user)
	return &resp, nil
}
