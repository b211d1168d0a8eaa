package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"tasktracker/internal/apperr"
	"tasktracker/internal/models"
	"tasktracker/internal/services"
)

// fakeTaskService records the last call and replays canned results.
type fakeTaskService struct {
	lastOwnerID int64
	lastOpts    services.ListOptions

	listTasks []models.Task
	listPage  models.Pagination
	stats     models.TaskStats
	task      *models.Task
	err       error
}

func (f *fakeTaskService) List(_ context.Context, ownerID int64, opts services.ListOptions) ([]models.Task, models.Pagination, error) {
	f.lastOwnerID = ownerID
	f.lastOpts = opts
	return f.listTasks, f.listPage, f.err
}

func (f *fakeTaskService) Statistics(_ context.Context, ownerID int64) (models.TaskStats, error) {
	f.lastOwnerID = ownerID
	return f.stats, f.err
}

func (f *fakeTaskService) GetByID(_ context.Context, id, ownerID int64) (*models.Task, error) {
	f.lastOwnerID = ownerID
	return f.task, f.err
}

func (f *fakeTaskService) Create(_ context.Context, ownerID int64, title, description string) (*models.Task, error) {
	f.lastOwnerID = ownerID
	return f.task, f.err
}

func (f *fakeTaskService) Update(_ context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	f.lastOwnerID = ownerID
	return f.task, f.err
}

func (f *fakeTaskService) Delete(_ context.Context, id, ownerID int64) error {
	f.lastOwnerID = ownerID
	return f.err
}

func newTaskRouter(svc services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTaskHandler(svc, nil, nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", int64(7)) })
	r.GET("/tasks", h.List)
	r.GET("/tasks/statistics", h.Statistics)
	r.GET("/tasks/:id", h.GetByID)
	r.POST("/tasks", h.Create)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\nbody: %s", err, w.Body.String())
	}
	return w, env
}

func TestListResponseShape(t *testing.T) {
	svc := &fakeTaskService{
		listTasks: []models.Task{{ID: 1, OwnerID: 7, Title: "buy milk", Status: models.StatusPending}},
		listPage: models.Pagination{
			CurrentPage: 1, TotalPages: 1, TotalCount: 1, PageSize: 10,
			Pages: []int{1},
		},
	}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodGet, "/tasks?page=2&limit=5&search=milk&status=done", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q, want success", env.Status)
	}

	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	if _, ok := data["tasks"]; !ok {
		t.Error("data.tasks missing")
	}
	if _, ok := data["pagination"]; !ok {
		t.Error("data.pagination missing")
	}

	want := services.ListOptions{Page: 2, PageSize: 5, Search: "milk", Status: "done"}
	if svc.lastOpts != want {
		t.Errorf("opts = %+v, want %+v", svc.lastOpts, want)
	}
	if svc.lastOwnerID != 7 {
		t.Errorf("ownerID = %d, want 7", svc.lastOwnerID)
	}
}

func TestListQueryDefaults(t *testing.T) {
	svc := &fakeTaskService{listTasks: []models.Task{}}
	r := newTaskRouter(svc)

	doJSON(t, r, http.MethodGet, "/tasks", "")
	want := services.ListOptions{Page: 1, PageSize: 10, Search: "", Status: models.StatusAll}
	if svc.lastOpts != want {
		t.Errorf("opts = %+v, want defaults %+v", svc.lastOpts, want)
	}

	// garbage numbers pass through as zero and normalize downstream
	doJSON(t, r, http.MethodGet, "/tasks?page=abc&limit=xyz", "")
	if svc.lastOpts.Page != 0 || svc.lastOpts.PageSize != 0 {
		t.Errorf("opts = %+v, want zero page and size for garbage input", svc.lastOpts)
	}
}

func TestStatisticsEnvelope(t *testing.T) {
	svc := &fakeTaskService{stats: models.TaskStats{Total: 12, Pending: 5, InProgress: 4, Done: 3}}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodGet, "/tasks/statistics", "")
	if w.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%q, want 200/success", w.Code, env.Status)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", env.Data)
	}
	for key, want := range map[string]float64{"total": 12, "pending": 5, "inProgress": 4, "done": 3} {
		if got, _ := data[key].(float64); got != want {
			t.Errorf("data.%s = %v, want %v", key, data[key], want)
		}
	}
}

func TestCreateCreated(t *testing.T) {
	svc := &fakeTaskService{task: &models.Task{ID: 42, OwnerID: 7, Title: "new", Status: models.StatusPending}}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodPost, "/tasks", `{"title":"new","description":""}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if env.Status != "success" || env.Message != "Task created successfully" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestValidationErrorIsFail(t *testing.T) {
	svc := &fakeTaskService{err: apperr.Validation("Invalid task status")}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodPut, "/tasks/1", `{"status":"archived"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env.Status != "fail" || env.Message != "Invalid task status" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestNotFoundIsFail(t *testing.T) {
	svc := &fakeTaskService{err: apperr.ErrNotFound}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodGet, "/tasks/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if env.Status != "fail" || env.Message != "Task not found" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestUnexpectedErrorIsOpaque(t *testing.T) {
	svc := &fakeTaskService{err: context.DeadlineExceeded}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodGet, "/tasks/statistics", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if env.Status != "error" || env.Message != "Internal Server Error" {
		t.Errorf("envelope = %+v, internals must not leak", env)
	}
}

func TestDeleteSuccess(t *testing.T) {
	svc := &fakeTaskService{task: &models.Task{ID: 1, OwnerID: 7, Title: "gone"}}
	r := newTaskRouter(svc)

	w, env := doJSON(t, r, http.MethodDelete, "/tasks/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if env.Status != "success" || env.Message != "Task deleted successfully" {
		t.Errorf("envelope = %+v", env)
	}
	if env.Data != nil {
		t.Errorf("data = %v, want null", env.Data)
	}
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	r := newTaskRouter(&fakeTaskService{})
	w, env := doJSON(t, r, http.MethodGet, "/tasks/not-a-number", "")
	if w.Code != http.StatusBadRequest || env.Status != "fail" {
		t.Errorf("status = %d/%q, want 400/fail", w.Code, env.Status)
	}
}
