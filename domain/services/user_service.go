package services

import (
	"context"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/models"
)

type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*models.User, error)

	// DeleteUser ลบ user พร้อม tasks ทั้งหมดของ user นั้น
	DeleteUser(ctx context.Context, userID int64) error
}
