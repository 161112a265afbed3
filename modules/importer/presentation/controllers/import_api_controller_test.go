package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/services"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/eventbus"
)

type stubTaskRepo struct {
	importtask.Repository
	tasks  []*importtask.ImportTask
	errors map[uuid.UUID][]*importtask.TaskError
}

func (s *stubTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*importtask.ImportTask, error) {
	for _, task := range s.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, importtask.ErrTaskNotFound
}

func (s *stubTaskRepo) List(_ context.Context, _ *importtask.FindParams) ([]*importtask.ImportTask, error) {
	return s.tasks, nil
}

func (s *stubTaskRepo) Count(_ context.Context, _ *importtask.FindParams) (int64, error) {
	return int64(len(s.tasks)), nil
}

func (s *stubTaskRepo) ListErrors(_ context.Context, id uuid.UUID) ([]*importtask.TaskError, error) {
	return s.errors[id], nil
}

type noopPublisher struct{}

func (noopPublisher) Enqueue(_ context.Context, _ string, _ interface{}) error {
	return nil
}

func newRouter(t *testing.T, repo importtask.Repository) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	app := application.New(&application.ApplicationOptions{
		EventBus: eventbus.NewEventPublisher(log),
		Logger:   log,
	})
	app.RegisterServices(services.NewImportService(repo, noopPublisher{}, log))

	router := mux.NewRouter()
	NewImportAPIController(app).Register(router)
	return router
}

func finishedTask() *importtask.ImportTask {
	return &importtask.ImportTask{
		ID:          uuid.New(),
		SubmitterID: "admin-1",
		CampusID:    "north",
		FileName:    "teachers.xlsx",
		Status:      importtask.StatusCompleted,
		ErrorCount:  1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestSubmitTaskRequiresSubmitterHeader(t *testing.T) {
	router := newRouter(t, &stubTaskRepo{})

	req := httptest.NewRequest(http.MethodPost, "/import/api/tasks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitTaskRequiresFile(t *testing.T) {
	router := newRouter(t, &stubTaskRepo{})

	req := httptest.NewRequest(http.MethodPost, "/import/api/tasks", nil)
	req.Header.Set("X-Admin-ID", "admin-1")
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTaskReturnsDetail(t *testing.T) {
	task := finishedTask()
	column := "email"
	repo := &stubTaskRepo{
		tasks: []*importtask.ImportTask{task},
		errors: map[uuid.UUID][]*importtask.TaskError{
			task.ID: {{
				Row:      2,
				Column:   &column,
				Kind:     importtask.KindDuplicateKey,
				Message:  "duplicate email",
				Severity: importtask.SeverityError,
			}},
		},
	}
	router := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/import/api/tasks/"+task.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Errors []struct {
			Row  int    `json:"row"`
			Kind string `json:"kind"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, task.ID.String(), body.ID)
	require.Equal(t, "COMPLETED", body.Status)
	require.Len(t, body.Errors, 1)
	require.Equal(t, 2, body.Errors[0].Row)
	require.Equal(t, "DUPLICATE_KEY", body.Errors[0].Kind)
}

func TestGetTaskUnknownID(t *testing.T) {
	router := newRouter(t, &stubTaskRepo{})

	req := httptest.NewRequest(http.MethodGet, "/import/api/tasks/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTaskBadID(t *testing.T) {
	router := newRouter(t, &stubTaskRepo{})

	req := httptest.NewRequest(http.MethodGet, "/import/api/tasks/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTasks(t *testing.T) {
	router := newRouter(t, &stubTaskRepo{tasks: []*importtask.ImportTask{finishedTask(), finishedTask()}})

	req := httptest.NewRequest(http.MethodGet, "/import/api/tasks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 2)
	require.Equal(t, int64(2), body.Total)
}

func TestDownloadErrorReport(t *testing.T) {
	task := finishedTask()
	repo := &stubTaskRepo{tasks: []*importtask.ImportTask{task}}
	router := newRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/import/api/tasks/"+task.ID.String()+"/errors.xlsx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	require.Equal(t, "PK", rec.Body.String()[:2])
}
