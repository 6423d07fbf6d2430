package serviceimpl

import (
	"context"
	"errors"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/models"
	"group-task-organizer/domain/ports"
	"group-task-organizer/domain/repositories"
	"group-task-organizer/domain/services"
	"group-task-organizer/pkg/logger"
	"group-task-organizer/pkg/utils"
)

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	events   ports.EventPublisher
}

func NewUserService(userRepo repositories.UserRepository, events ports.EventPublisher) services.UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		events:   events,
	}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	req.Normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.ValidationError("Invalid user", utils.GetValidationErrors(err))
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			logger.WarnContext(ctx, "Email already in use", "email", req.Email)
			return nil, services.ConflictError("email already in use")
		}
		logger.ErrorContext(ctx, "Failed to create user", "email", req.Email, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User created", "user_id", user.ID, "email", user.Email)
	publish(ctx, s.events, ports.NewEvent(ports.EventUserCreated, user.ID, user.ID, dto.UserToUserResponse(user)))

	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, services.NotFoundError("user not found")
		}
		logger.ErrorContext(ctx, "Failed to get user", "user_id", userID, "error", err)
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*models.User, error) {
	req.Normalize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.ValidationError("Invalid user", utils.GetValidationErrors(err))
	}

	// email ของคนอื่นตอบ Conflict ได้เลย store ยังเช็คซ้ำอีกรอบตอนเขียน
	owner, err := s.userRepo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && owner.ID != userID:
		logger.WarnContext(ctx, "Email already in use", "user_id", userID, "owner_id", owner.ID)
		return nil, services.ConflictError("email already in use")
	case err != nil && !errors.Is(err, repositories.ErrRecordNotFound):
		logger.ErrorContext(ctx, "Failed to look up email", "user_id", userID, "error", err)
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, userID, func(u *models.User) error {
		u.Name = req.Name
		u.Email = req.Email
		u.Role = req.Role
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRecordNotFound):
			return nil, services.NotFoundError("user not found")
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, services.ConflictError("email already in use")
		}
		logger.ErrorContext(ctx, "Failed to update user", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "User updated", "user_id", userID)
	publish(ctx, s.events, ports.NewEvent(ports.EventUserUpdated, user.ID, user.ID, dto.UserToUserResponse(user)))

	return user, nil
}

// DeleteUser: ownership is composition, the store removes the user's tasks in the same unit.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	removedTasks, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			logger.WarnContext(ctx, "User not found for deletion", "user_id", userID)
			return services.NotFoundError("user not found")
		}
		logger.ErrorContext(ctx, "Failed to delete user", "user_id", userID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "User deleted", "user_id", userID, "tasks_removed", removedTasks)
	publish(ctx, s.events, ports.NewEvent(ports.EventUserDeleted, userID, userID, map[string]int64{
		"tasks_removed": removedTasks,
	}))

	return nil
}
