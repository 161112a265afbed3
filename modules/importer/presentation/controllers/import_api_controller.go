package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/campusware/campus/modules/importer/domain/entities/importtask"
	"github.com/campusware/campus/modules/importer/services"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/composables"
	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/httpapi"
	"github.com/campusware/campus/pkg/serrors"
)

const (
	submitterHeader = "X-Admin-ID"
	campusHeader    = "X-Campus-ID"
)

type ImportAPIController struct {
	app       application.Application
	imports   *services.ImportService
	apiPrefix string
}

func NewImportAPIController(app application.Application) application.Controller {
	return &ImportAPIController{
		app:       app,
		imports:   app.Service(services.ImportService{}).(*services.ImportService),
		apiPrefix: "/import/api",
	}
}

func (c *ImportAPIController) Key() string {
	return c.apiPrefix
}

func (c *ImportAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/tasks", c.SubmitTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", c.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", c.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", c.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/errors.xlsx", c.DownloadErrorReport).Methods(http.MethodGet)
}

type taskResponse struct {
	ID          string    `json:"id"`
	SubmitterID string    `json:"submitter_id"`
	CampusID    string    `json:"campus_id,omitempty"`
	FileName    string    `json:"file_name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ErrorCount  int       `json:"error_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type taskErrorResponse struct {
	Row      int     `json:"row"`
	Column   *string `json:"column,omitempty"`
	Kind     string  `json:"kind"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
}

type taskDetailResponse struct {
	taskResponse
	Errors []*taskErrorResponse `json:"errors"`
}

type submitResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

func toTaskResponse(task *importtask.ImportTask) taskResponse {
	return taskResponse{
		ID:          task.ID.String(),
		SubmitterID: task.SubmitterID,
		CampusID:    task.CampusID,
		FileName:    task.FileName,
		Description: task.Description,
		Status:      string(task.Status),
		ErrorCount:  task.ErrorCount,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// SubmitTask accepts a multipart upload and answers 202 with the queued
// task. The response returns before any validation happens.
func (c *ImportAPIController) SubmitTask(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	submitterID := r.Header.Get(submitterHeader)
	if submitterID == "" {
		_ = httpapi.WriteError(w, http.StatusUnauthorized, "IMPORT_NO_SUBMITTER", fmt.Sprintf("%s header is required", submitterHeader), nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, conf.MaxUploadSize)
	if err := r.ParseMultipartForm(conf.MaxUploadSize); err != nil {
		_ = httpapi.WriteError(w, http.StatusRequestEntityTooLarge, "IMPORT_UPLOAD_TOO_LARGE", "upload exceeds the size limit", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_NO_FILE", `multipart field "file" is required`, nil)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}

	campusID := composables.CampusIDOrEmpty(r.Context())
	if campusID == "" {
		campusID = r.Header.Get(campusHeader)
	}

	task, err := c.imports.Submit(r.Context(), &services.SubmitCommand{
		SubmitterID: submitterID,
		CampusID:    campusID,
		FileName:    header.Filename,
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		File:        data,
	})
	if err != nil {
		var baseErr *serrors.BaseError
		if errors.As(err, &baseErr) {
			_ = httpapi.WriteError(w, http.StatusBadRequest, baseErr.Code, baseErr.Message, nil)
			return
		}
		c.writeInternalError(w, r, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusAccepted, &submitResponse{
		Message: "import task queued",
		TaskID:  task.ID.String(),
	})
}

func (c *ImportAPIController) ListTasks(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	limit, offset := httpapi.PageParams(r, conf.PageSize, conf.MaxPageSize)

	tasks, total, err := c.imports.ListTasks(r.Context(), &importtask.FindParams{
		Status:      importtask.Status(r.URL.Query().Get("status")),
		SubmitterID: r.URL.Query().Get("submitter"),
		CampusID:    r.URL.Query().Get("campus"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *ImportAPIController) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := c.taskID(w, r)
	if !ok {
		return
	}

	task, err := c.imports.GetTask(r.Context(), id)
	if err != nil {
		c.writeTaskError(w, r, err)
		return
	}
	taskErrors, err := c.imports.GetTaskErrors(r.Context(), id)
	if err != nil {
		c.writeTaskError(w, r, err)
		return
	}

	detail := taskDetailResponse{taskResponse: toTaskResponse(task)}
	detail.Errors = make([]*taskErrorResponse, 0, len(taskErrors))
	for _, e := range taskErrors {
		detail.Errors = append(detail.Errors, &taskErrorResponse{
			Row:      e.Row,
			Column:   e.Column,
			Kind:     string(e.Kind),
			Message:  e.Message,
			Severity: string(e.Severity),
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &detail)
}

func (c *ImportAPIController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := c.taskID(w, r)
	if !ok {
		return
	}
	if err := c.imports.DeleteTask(r.Context(), id); err != nil {
		c.writeTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ImportAPIController) DownloadErrorReport(w http.ResponseWriter, r *http.Request) {
	id, ok := c.taskID(w, r)
	if !ok {
		return
	}

	report, err := c.imports.BuildErrorReport(r.Context(), id)
	if err != nil {
		c.writeTaskError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="import-errors-%s.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report)
}

func (c *ImportAPIController) taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "IMPORT_BAD_TASK_ID", "task id must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *ImportAPIController) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, importtask.ErrTaskNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "IMPORT_TASK_NOT_FOUND", "task not found", nil)
		return
	}
	c.writeInternalError(w, r, err)
}

func (c *ImportAPIController) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	var log logrus.FieldLogger = c.app.Logger()
	if entry, lerr := composables.UseLogger(r.Context()); lerr == nil {
		log = entry
	}
	log.WithError(err).WithField("path", r.URL.Path).Error("import api request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "IMPORT_INTERNAL", "internal error", nil)
}
