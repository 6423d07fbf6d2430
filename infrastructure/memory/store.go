// Package memory keeps users and tasks in process memory. One RWMutex guards
// the whole arena, so a cascading user delete and a task create can never
// interleave and readers never see a half-deleted user.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"group-task-organizer/domain/models"
	"group-task-organizer/domain/repositories"
)

type Store struct {
	mu sync.RWMutex

	nextUserID int64
	nextTaskID int64

	users       map[int64]*models.User
	emailIndex  map[string]int64
	tasks       map[int64]*models.Task
	tasksByUser map[int64][]int64 // creation order

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int64]*models.User),
		emailIndex:  make(map[string]int64),
		tasks:       make(map[int64]*models.Task),
		tasksByUser: make(map[int64][]int64),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ========== users ==========

func (s *Store) createUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emailIndex[user.Email]; taken {
		return repositories.ErrDuplicateEmail
	}

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = user.Clone()
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Store) getUser(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return user.Clone(), nil
}

func (s *Store) getUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[email]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *Store) listUsers(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user.Clone())
	}
	// ids are monotonic, so id order is creation order
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) updateUser(ctx context.Context, id int64, mutate func(*models.User) error) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now()

	if next.Email != current.Email {
		if owner, taken := s.emailIndex[next.Email]; taken && owner != id {
			return nil, repositories.ErrDuplicateEmail
		}
		delete(s.emailIndex, current.Email)
		s.emailIndex[next.Email] = id
	}

	s.users[id] = next
	return next.Clone(), nil
}

func (s *Store) deleteUser(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return 0, repositories.ErrRecordNotFound
	}

	// walk the index, drop the backing records, then the index entry itself
	taskIDs := s.tasksByUser[id]
	for _, taskID := range taskIDs {
		delete(s.tasks, taskID)
	}
	delete(s.tasksByUser, id)
	delete(s.emailIndex, user.Email)
	delete(s.users, id)

	return int64(len(taskIDs)), nil
}

// ========== tasks ==========

func (s *Store) createTask(ctx context.Context, task *models.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[task.UserID]; !ok {
		return repositories.ErrOwnerMissing
	}

	s.nextTaskID++
	now := s.now()
	task.ID = s.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now

	s.tasks[task.ID] = task.Clone()
	s.tasksByUser[task.UserID] = append(s.tasksByUser[task.UserID], task.ID)
	return nil
}

func (s *Store) getTask(ctx context.Context, id int64) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	return task.Clone(), nil
}

func (s *Store) listTasksByUser(ctx context.Context, userID int64) ([]*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[userID]; !ok {
		return nil, repositories.ErrOwnerMissing
	}

	ids := s.tasksByUser[userID]
	tasks := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, s.tasks[id].Clone())
	}
	return tasks, nil
}

func (s *Store) updateTask(ctx context.Context, id int64, mutate func(*models.Task) error) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.UserID = current.UserID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now()

	s.tasks[id] = next
	return next.Clone(), nil
}

func (s *Store) deleteTask(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return repositories.ErrRecordNotFound
	}

	delete(s.tasks, id)
	s.tasksByUser[task.UserID] = removeID(s.tasksByUser[task.UserID], id)
	return nil
}

func (s *Store) counts() (users, tasks int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), int64(len(s.tasks))
}

func removeID(ids []int64, id int64) []int64 {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
