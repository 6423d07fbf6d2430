package models

import (
	"fmt"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusDone     TaskStatus = "done"
)

// TaskStatuses lists every recognized status. Any status may move to any other.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusProgress, TaskStatusDone}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus แปลง string เป็น TaskStatus, ค่าว่างได้ todo
func ParseTaskStatus(raw string) (TaskStatus, error) {
	if raw == "" {
		return TaskStatusTodo, nil
	}
	status := TaskStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown task status %q", raw)
	}
	return status, nil
}

type Task struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	UserID      int64      `gorm:"not null;index"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Status      TaskStatus `gorm:"size:16;not null;default:'todo'"`
	Deadline    Date       `gorm:"type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// Clone returns a detached copy without the preloaded owner.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.User = nil
	return &clone
}
