package serviceimpl

import (
	"context"
	"errors"
	"sync"
	"testing"

	"group-task-organizer/domain/dto"
	"group-task-organizer/domain/models"
	"group-task-organizer/domain/ports"
	"group-task-organizer/domain/repositories"
	"group-task-organizer/domain/services"
	"group-task-organizer/infrastructure/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*ports.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	users    services.UserService
	tasks    services.TaskService
	userRepo repositories.UserRepository
	taskRepo repositories.TaskRepository
	events   *recordingPublisher
}

func newFixture() *fixture {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	events := &recordingPublisher{}
	return &fixture{
		users:    NewUserService(userRepo, events),
		tasks:    NewTaskService(taskRepo, userRepo, events),
		userRepo: userRepo,
		taskRepo: taskRepo,
		events:   events,
	}
}

func (f *fixture) assertCounts(t *testing.T, wantUsers, wantTasks int64) {
	t.Helper()
	ctx := context.Background()
	users, err := f.userRepo.Count(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	tasks, err := f.taskRepo.Count(ctx)
	if err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if users != wantUsers || tasks != wantTasks {
		t.Fatalf("store holds users=%d tasks=%d, want users=%d tasks=%d", users, tasks, wantUsers, wantTasks)
	}
}

func (f *fixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), &dto.CreateUserRequest{Name: "Ana", Email: email, Role: "Dev"})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

func assertKind(t *testing.T, err error, want services.ErrorKind) {
	t.Helper()
	if got := services.KindOf(err); got != want {
		t.Fatalf("error kind = %q (%v), want %q", got, err, want)
	}
}

func TestCreateUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, &dto.CreateUserRequest{Name: " Ana ", Email: " Ana@X.com ", Role: "Dev"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 || user.Name != "Ana" || user.Email != "ana@x.com" {
		t.Errorf("unexpected user: %+v", user)
	}

	_, err = f.users.CreateUser(ctx, &dto.CreateUserRequest{Name: "Other", Email: "ANA@x.com", Role: "QA"})
	assertKind(t, err, services.KindConflict)
	f.assertCounts(t, 1, 0)

	bob := f.createUser(t, "bob@x.com")
	if bob.ID != user.ID+1 {
		t.Errorf("next user id = %d, want %d", bob.ID, user.ID+1)
	}

	if got := f.events.types(); len(got) != 2 || got[0] != ports.EventUserCreated {
		t.Errorf("events = %v, want two %s", got, ports.EventUserCreated)
	}
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateUserRequest
		field string
	}{
		{"missing name", dto.CreateUserRequest{Email: "a@x.com", Role: "Dev"}, "name"},
		{"blank name", dto.CreateUserRequest{Name: "   ", Email: "a@x.com", Role: "Dev"}, "name"},
		{"bad email", dto.CreateUserRequest{Name: "Ana", Email: "not-an-email", Role: "Dev"}, "email"},
		{"missing role", dto.CreateUserRequest{Name: "Ana", Email: "a@x.com"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := tt.req
			_, err := f.users.CreateUser(context.Background(), &req)
			assertKind(t, err, services.KindValidation)

			var svcErr *services.Error
			errors.As(err, &svcErr)
			if _, ok := svcErr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want an entry for %q", svcErr.Fields, tt.field)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")
	f.createUser(t, "bob@x.com")

	updated, err := f.users.UpdateUser(ctx, ana.ID, &dto.UpdateUserRequest{Name: "Ana M", Email: "ana.m@x.com", Role: "Lead"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Ana M" || updated.Role != "Lead" || updated.Email != "ana.m@x.com" {
		t.Errorf("unexpected user: %+v", updated)
	}

	_, err = f.users.UpdateUser(ctx, ana.ID, &dto.UpdateUserRequest{Name: "Ana", Email: "bob@x.com", Role: "Dev"})
	assertKind(t, err, services.KindConflict)

	_, err = f.users.UpdateUser(ctx, 999, &dto.UpdateUserRequest{Name: "Ghost", Email: "g@x.com", Role: "Dev"})
	assertKind(t, err, services.KindNotFound)

	// keeping your own address is not a conflict
	if _, err := f.users.UpdateUser(ctx, ana.ID, &dto.UpdateUserRequest{Name: "Ana", Email: "ANA.M@x.com", Role: "Dev"}); err != nil {
		t.Fatalf("UpdateUser with own email: %v", err)
	}
}

type writeCountingUserRepo struct {
	repositories.UserRepository
	updates int
}

func (r *writeCountingUserRepo) Update(ctx context.Context, id int64, mutate func(*models.User) error) (*models.User, error) {
	r.updates++
	return r.UserRepository.Update(ctx, id, mutate)
}

func TestUpdateUserEmailConflictSkipsWrite(t *testing.T) {
	store := memory.NewStore()
	repo := &writeCountingUserRepo{UserRepository: memory.NewUserRepository(store)}
	svc := NewUserService(repo, nil)
	ctx := context.Background()

	ana, _ := svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "Ana", Email: "ana@x.com", Role: "Dev"})
	if _, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Name: "Bob", Email: "bob@x.com", Role: "QA"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := svc.UpdateUser(ctx, ana.ID, &dto.UpdateUserRequest{Name: "Ana", Email: "bob@x.com", Role: "Dev"})
	assertKind(t, err, services.KindConflict)
	if repo.updates != 0 {
		t.Errorf("store write attempted %d times for a taken email", repo.updates)
	}

	stored, _ := repo.GetByID(ctx, ana.ID)
	if stored.Email != "ana@x.com" {
		t.Errorf("email changed to %q", stored.Email)
	}
}

func TestCreateTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")

	task, err := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "Draft plan", Deadline: "2025-01-10"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != models.TaskStatusTodo {
		t.Errorf("default status = %q, want todo", task.Status)
	}
	if task.UserID != ana.ID || task.Deadline.String() != "2025-01-10" {
		t.Errorf("unexpected task: %+v", task)
	}

	_, err = f.tasks.CreateTask(ctx, 999, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10"})
	assertKind(t, err, services.KindNotFound)
	f.assertCounts(t, 1, 1)

	next, err := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "Review", Deadline: "2025-01-11"})
	if err != nil {
		t.Fatalf("CreateTask after rejected create: %v", err)
	}
	if next.ID != task.ID+1 {
		t.Errorf("next task id = %d, want %d", next.ID, task.ID+1)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   dto.CreateTaskRequest
		field string
	}{
		{"empty title", dto.CreateTaskRequest{Title: "", Deadline: "2025-01-10"}, "title"},
		{"missing deadline", dto.CreateTaskRequest{Title: "x"}, "deadline"},
		{"unparsable deadline", dto.CreateTaskRequest{Title: "x", Deadline: "next week"}, "deadline"},
		{"unknown status", dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10", Status: "blocked"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ana := f.createUser(t, "ana@x.com")
			req := tt.req
			_, err := f.tasks.CreateTask(context.Background(), ana.ID, &req)
			assertKind(t, err, services.KindValidation)

			var svcErr *services.Error
			errors.As(err, &svcErr)
			if _, ok := svcErr.Fields[tt.field]; !ok {
				t.Errorf("fields = %v, want an entry for %q", svcErr.Fields, tt.field)
			}
		})
	}
}

func TestUpdateStatusAnyToAny(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")
	task, _ := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10"})

	for _, from := range models.TaskStatuses {
		for _, to := range models.TaskStatuses {
			if _, err := f.tasks.UpdateStatus(ctx, task.ID, string(from)); err != nil {
				t.Fatalf("set %s: %v", from, err)
			}
			got, err := f.tasks.UpdateStatus(ctx, task.ID, string(to))
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if got.Status != to {
				t.Errorf("%s -> %s: status = %s", from, to, got.Status)
			}
		}
	}

	// same trimming as create and full update
	got, err := f.tasks.UpdateStatus(ctx, task.ID, " done ")
	if err != nil {
		t.Fatalf("padded status: %v", err)
	}
	if got.Status != models.TaskStatusDone {
		t.Errorf("padded status stored as %q", got.Status)
	}

	_, err = f.tasks.UpdateStatus(ctx, task.ID, "archived")
	assertKind(t, err, services.KindValidation)

	_, err = f.tasks.UpdateStatus(ctx, 999, "done")
	assertKind(t, err, services.KindNotFound)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")
	bob := f.createUser(t, "bob@x.com")
	task, _ := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10", Status: "progress"})

	updated, err := f.tasks.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{
		ID:          task.ID,
		UserID:      ana.ID,
		Title:       "renamed",
		Description: "more detail",
		Deadline:    "2025-02-01",
		Status:      "done",
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "renamed" || updated.Status != models.TaskStatusDone || updated.Deadline.String() != "2025-02-01" {
		t.Errorf("unexpected task: %+v", updated)
	}

	// omitted status falls back to todo
	updated, err = f.tasks.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Title: "renamed", Deadline: "2025-02-01"})
	if err != nil {
		t.Fatalf("UpdateTask without status: %v", err)
	}
	if updated.Status != models.TaskStatusTodo {
		t.Errorf("status = %q, want todo", updated.Status)
	}

	_, err = f.tasks.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{UserID: bob.ID, Title: "steal", Deadline: "2025-02-01"})
	assertKind(t, err, services.KindValidation)

	stored, _ := f.tasks.GetTask(ctx, task.ID)
	if stored.UserID != ana.ID || stored.Title != "renamed" {
		t.Errorf("rejected update changed the task: %+v", stored)
	}

	_, err = f.tasks.UpdateTask(ctx, 999, &dto.UpdateTaskRequest{Title: "x", Deadline: "2025-02-01"})
	assertKind(t, err, services.KindNotFound)
}

func TestDeleteTaskTwice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")
	task, _ := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10"})

	if err := f.tasks.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	assertKind(t, f.tasks.DeleteTask(ctx, task.ID), services.KindNotFound)

	_, err := f.tasks.GetTask(ctx, task.ID)
	assertKind(t, err, services.KindNotFound)
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	ana := f.createUser(t, "ana@x.com")
	task, _ := f.tasks.CreateTask(ctx, ana.ID, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10"})

	if err := f.users.DeleteUser(ctx, ana.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	_, err := f.tasks.ListTasksForUser(ctx, ana.ID)
	assertKind(t, err, services.KindNotFound)
	_, err = f.tasks.GetTask(ctx, task.ID)
	assertKind(t, err, services.KindNotFound)
	assertKind(t, f.users.DeleteUser(ctx, ana.ID), services.KindNotFound)

	// email is free again
	f.createUser(t, "ana@x.com")
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")

	user := f.createUser(t, "ana@x.com")
	if _, err := f.users.GetUser(context.Background(), user.ID); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
}

func TestOwnerVanishingIsInvalidReference(t *testing.T) {
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	taskRepo := memory.NewTaskRepository(store)

	owner := &models.User{Name: "Ana", Email: "ana@x.com", Role: "Dev"}
	_ = userRepo.Create(context.Background(), owner)

	// the user lookup succeeds, then the owner is removed before the insert
	svc := NewTaskService(taskRepo, &deletingUserRepo{UserRepository: userRepo}, nil)
	_, err := svc.CreateTask(context.Background(), owner.ID, &dto.CreateTaskRequest{Title: "x", Deadline: "2025-01-10"})
	assertKind(t, err, services.KindInvalidReference)

	if count, _ := taskRepo.Count(context.Background()); count != 0 {
		t.Errorf("orphan task stored: count = %d", count)
	}
}

type deletingUserRepo struct {
	repositories.UserRepository
}

func (r *deletingUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.UserRepository.Delete(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}
