package dto

import "strings"

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Deadline    string `json:"deadline" validate:"required,calendardate"`
	Status      string `json:"status" validate:"omitempty,taskstatus"`
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Deadline = strings.TrimSpace(r.Deadline)
	r.Status = strings.TrimSpace(r.Status)
}

// UpdateTaskRequest is the whole task as the UI sends it back on PUT.
// ID is ignored; a non-zero UserID must match the current owner.
type UpdateTaskRequest struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Deadline    string `json:"deadline" validate:"required,calendardate"`
	Status      string `json:"status" validate:"omitempty,taskstatus"`
}

func (r *UpdateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Deadline = strings.TrimSpace(r.Deadline)
	r.Status = strings.TrimSpace(r.Status)
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

func (r *UpdateTaskStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Deadline    string `json:"deadline"`
}
