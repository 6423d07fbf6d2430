package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"group-task-organizer/application/serviceimpl"
	"group-task-organizer/domain/dto"
	"group-task-organizer/infrastructure/memory"
	"group-task-organizer/infrastructure/messaging"
	"group-task-organizer/interfaces/api/handlers"
	"group-task-organizer/pkg/utils"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	events := messaging.NewNoopEventPublisher()

	return NewServer(ServerConfig{
		AppName:          "test",
		AllowOrigins:     "*",
		Idempotency:      memory.NewIdempotencyStore(),
		IdempotencyTTL:   time.Hour,
		DisableStartupUI: true,
	}, &handlers.Services{
		UserService: serviceimpl.NewUserService(userRepo, events),
		TaskService: serviceimpl.NewTaskService(taskRepo, userRepo, events),
		ServiceName: "test",
		StoreDriver: "memory",
		Jobs: func() []dto.JobStatus {
			return []dto.JobStatus{{Name: "store-stats", Cron: "*/5 * * * *"}}
		},
	})
}

type result struct {
	status int
	header http.Header
	body   []byte
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers ...string) result {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return result{status: resp.StatusCode, header: resp.Header, body: data}
}

func decode[T any](t *testing.T, r result) T {
	t.Helper()
	var out T
	if err := sonic.Unmarshal(r.body, &out); err != nil {
		t.Fatalf("decode %s: %v", r.body, err)
	}
	return out
}

func errorCode(t *testing.T, r result) string {
	t.Helper()
	resp := decode[utils.Response](t, r)
	if resp.Success || resp.Error == nil {
		t.Fatalf("expected error envelope, got %s", r.body)
	}
	return resp.Error.Code
}

func TestUserTaskScenario(t *testing.T) {
	app := newTestApp(t)

	r := do(t, app, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com","role":"Dev"}`)
	if r.status != http.StatusCreated {
		t.Fatalf("create user: status %d body %s", r.status, r.body)
	}
	user := decode[map[string]any](t, r)
	if user["id"] != float64(1) || user["email"] != "ana@x.com" {
		t.Fatalf("unexpected user: %v", user)
	}

	r = do(t, app, http.MethodPost, "/users/1/tasks", `{"title":"Draft plan","description":"","deadline":"2025-01-10","status":"todo"}`)
	if r.status != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", r.status, r.body)
	}
	task := decode[map[string]any](t, r)
	if task["id"] != float64(1) || task["status"] != "todo" || task["user_id"] != float64(1) || task["deadline"] != "2025-01-10" {
		t.Fatalf("unexpected task: %v", task)
	}

	r = do(t, app, http.MethodPut, "/tasks/1", `{"id":1,"user_id":1,"title":"Draft plan","description":"","deadline":"2025-01-10","status":"done"}`)
	if r.status != http.StatusOK {
		t.Fatalf("update task: status %d body %s", r.status, r.body)
	}

	r = do(t, app, http.MethodGet, "/users/1/tasks", "")
	tasks := decode[[]map[string]any](t, r)
	if len(tasks) != 1 || tasks[0]["status"] != "done" {
		t.Fatalf("tasks after update: %v", tasks)
	}

	r = do(t, app, http.MethodDelete, "/users/1", "")
	if r.status != http.StatusNoContent {
		t.Fatalf("delete user: status %d", r.status)
	}

	r = do(t, app, http.MethodGet, "/users/1/tasks", "")
	if r.status != http.StatusNotFound || errorCode(t, r) != utils.ErrCodeNotFound {
		t.Fatalf("tasks of deleted user: status %d body %s", r.status, r.body)
	}
}

func TestEmptyCollectionsAreArrays(t *testing.T) {
	app := newTestApp(t)

	r := do(t, app, http.MethodGet, "/users", "")
	if r.status != http.StatusOK || strings.TrimSpace(string(r.body)) != "[]" {
		t.Fatalf("GET /users = %d %s, want 200 []", r.status, r.body)
	}

	do(t, app, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com","role":"Dev"}`)
	r = do(t, app, http.MethodGet, "/users/1/tasks", "")
	if r.status != http.StatusOK || strings.TrimSpace(string(r.body)) != "[]" {
		t.Fatalf("GET /users/1/tasks = %d %s, want 200 []", r.status, r.body)
	}
}

func TestErrorMapping(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com","role":"Dev"}`)
	do(t, app, http.MethodPost, "/users/1/tasks", `{"title":"x","deadline":"2025-01-10"}`)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"duplicate email", http.MethodPost, "/users", `{"name":"B","email":"ANA@x.com","role":"QA"}`, http.StatusConflict, utils.ErrCodeConflict},
		{"missing user fields", http.MethodPost, "/users", `{"name":"B"}`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"malformed json", http.MethodPost, "/users", `{"name":`, http.StatusBadRequest, utils.ErrCodeBadRequest},
		{"task for unknown user", http.MethodPost, "/users/9/tasks", `{"title":"x","deadline":"2025-01-10"}`, http.StatusNotFound, utils.ErrCodeNotFound},
		{"empty title", http.MethodPost, "/users/1/tasks", `{"title":"","deadline":"2025-01-10"}`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"bad deadline", http.MethodPost, "/users/1/tasks", `{"title":"x","deadline":"soon"}`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"bad status", http.MethodPatch, "/tasks/1/status", `{"status":"blocked"}`, http.StatusBadRequest, utils.ErrCodeValidation},
		{"non-numeric id", http.MethodGet, "/tasks/abc", "", http.StatusBadRequest, utils.ErrCodeBadRequest},
		{"zero id", http.MethodDelete, "/users/0", "", http.StatusBadRequest, utils.ErrCodeBadRequest},
		{"unknown task", http.MethodPut, "/tasks/42", `{"title":"x","deadline":"2025-01-10"}`, http.StatusNotFound, utils.ErrCodeNotFound},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound, utils.ErrCodeNotFound},
		{"wrong method", http.MethodPost, "/tasks/1", `{}`, http.StatusMethodNotAllowed, utils.ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := do(t, app, tt.method, tt.path, tt.body)
			if r.status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", r.status, tt.wantStatus, r.body)
			}
			if code := errorCode(t, r); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	app := newTestApp(t)

	r := do(t, app, http.MethodPost, "/users", `{"name":"Ana","email":"nope","role":"Dev"}`)
	resp := decode[utils.Response](t, r)
	details, ok := resp.Error.Details.(map[string]any)
	if !ok || details["email"] == nil {
		t.Fatalf("details = %#v, want an email entry", resp.Error.Details)
	}
}

func TestStatusPatchAndDeleteTwice(t *testing.T) {
	app := newTestApp(t)
	do(t, app, http.MethodPost, "/users", `{"name":"Ana","email":"ana@x.com","role":"Dev"}`)
	do(t, app, http.MethodPost, "/users/1/tasks", `{"title":"x","deadline":"2025-01-10"}`)

	r := do(t, app, http.MethodPatch, "/tasks/1/status", `{"status":"progress"}`)
	if r.status != http.StatusOK || decode[map[string]any](t, r)["status"] != "progress" {
		t.Fatalf("patch status: %d %s", r.status, r.body)
	}

	r = do(t, app, http.MethodGet, "/tasks/1", "")
	if r.status != http.StatusOK || decode[map[string]any](t, r)["status"] != "progress" {
		t.Fatalf("get task: %d %s", r.status, r.body)
	}

	if r = do(t, app, http.MethodDelete, "/tasks/1", ""); r.status != http.StatusNoContent {
		t.Fatalf("first delete: %d", r.status)
	}
	if r = do(t, app, http.MethodDelete, "/tasks/1", ""); r.status != http.StatusNotFound {
		t.Fatalf("second delete: %d, want 404", r.status)
	}
}

func TestIdempotentCreateReplays(t *testing.T) {
	app := newTestApp(t)
	body := `{"name":"Ana","email":"ana@x.com","role":"Dev"}`

	first := do(t, app, http.MethodPost, "/users", body, "Idempotency-Key", "abc")
	if first.status != http.StatusCreated {
		t.Fatalf("first: %d %s", first.status, first.body)
	}

	second := do(t, app, http.MethodPost, "/users", body, "Idempotency-Key", "abc")
	if second.status != http.StatusCreated || string(second.body) != string(first.body) {
		t.Fatalf("replay = %d %s, want %d %s", second.status, second.body, first.status, first.body)
	}
	if second.header.Get("Idempotent-Replayed") != "true" {
		t.Error("replay missing Idempotent-Replayed header")
	}

	users := decode[[]map[string]any](t, do(t, app, http.MethodGet, "/users", ""))
	if len(users) != 1 {
		t.Fatalf("replay created another user: %v", users)
	}

	// a new key runs the handler again and hits the uniqueness rule
	third := do(t, app, http.MethodPost, "/users", body, "Idempotency-Key", "def")
	if third.status != http.StatusConflict {
		t.Fatalf("new key: %d, want 409", third.status)
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	r := do(t, app, http.MethodOptions, "/users", "",
		"Origin", "http://localhost:5173",
		"Access-Control-Request-Method", "POST",
	)
	if r.status != http.StatusNoContent {
		t.Fatalf("preflight status = %d", r.status)
	}
	if got := r.header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if !strings.Contains(r.header.Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Errorf("Access-Control-Allow-Methods = %q", r.header.Get("Access-Control-Allow-Methods"))
	}
}

func TestRequestIDAndHealth(t *testing.T) {
	app := newTestApp(t)

	r := do(t, app, http.MethodGet, "/health", "", "X-Request-ID", "req-123")
	if r.status != http.StatusOK {
		t.Fatalf("health: %d", r.status)
	}
	if r.header.Get("X-Request-ID") != "req-123" {
		t.Errorf("X-Request-ID = %q", r.header.Get("X-Request-ID"))
	}
	health := decode[dto.HealthResponse](t, r)
	if health.Status != "ok" || health.Store != "memory" {
		t.Errorf("health = %+v", health)
	}
	if len(health.Jobs) != 1 || health.Jobs[0].Name != "store-stats" || health.Jobs[0].Cron != "*/5 * * * *" {
		t.Errorf("jobs = %+v", health.Jobs)
	}

	r = do(t, app, http.MethodGet, "/health", "")
	if r.header.Get("X-Request-ID") == "" {
		t.Error("request id not generated")
	}
}
