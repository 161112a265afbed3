package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/student"
	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
	"github.com/campusware/campus/modules/curriculum/services"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/configuration"
	"github.com/campusware/campus/pkg/httpapi"
)

type CurriculumAPIController struct {
	app       application.Application
	directory *services.DirectoryService
	apiPrefix string
}

func NewCurriculumAPIController(app application.Application) application.Controller {
	return &CurriculumAPIController{
		app:       app,
		directory: app.Service(services.DirectoryService{}).(*services.DirectoryService),
		apiPrefix: "/curriculum/api",
	}
}

func (c *CurriculumAPIController) Key() string {
	return c.apiPrefix
}

func (c *CurriculumAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.apiPrefix).Subrouter()

	api.HandleFunc("/departments", c.ListDepartments).Methods(http.MethodGet)
	api.HandleFunc("/courses", c.ListCourses).Methods(http.MethodGet)
	api.HandleFunc("/teachers", c.ListTeachers).Methods(http.MethodGet)
	api.HandleFunc("/classrooms", c.ListClassrooms).Methods(http.MethodGet)
	api.HandleFunc("/student-groups", c.ListStudentGroups).Methods(http.MethodGet)
	api.HandleFunc("/students", c.ListStudents).Methods(http.MethodGet)
	api.HandleFunc("/course-instances", c.ListCourseInstances).Methods(http.MethodGet)
}

type departmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type courseResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	DepartmentCode string    `json:"department_code"`
	WeeklyHours    int       `json:"weekly_hours"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type teacherResponse struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	DepartmentCode string    `json:"department_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type classroomResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	BuildingCode string    `json:"building_code,omitempty"`
	Capacity     int       `json:"capacity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type studentGroupResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type studentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	GroupCode string    `json:"group_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type courseInstanceResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	CourseCode  string    `json:"course_code"`
	TeacherCode string    `json:"teacher_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *CurriculumAPIController) pageParams(r *http.Request) (int, int) {
	conf := configuration.Use()
	return httpapi.PageParams(r, conf.PageSize, conf.MaxPageSize)
}

func (c *CurriculumAPIController) ListDepartments(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListDepartments(r.Context(), &department.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*departmentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, &departmentResponse{
			ID: d.ID.String(), Code: d.Code, Name: d.Name,
			CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListCourses(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListCourses(r.Context(), &course.FindParams{
		Search:         r.URL.Query().Get("search"),
		DepartmentCode: r.URL.Query().Get("department"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*courseResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &courseResponse{
			ID: v.ID.String(), Code: v.Code, Name: v.Name,
			DepartmentCode: v.DepartmentCode, WeeklyHours: v.WeeklyHours,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListTeachers(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListTeachers(r.Context(), &teacher.FindParams{
		Search:         r.URL.Query().Get("search"),
		DepartmentCode: r.URL.Query().Get("department"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*teacherResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &teacherResponse{
			ID: v.ID.String(), Code: v.Code, FirstName: v.FirstName, LastName: v.LastName,
			Email: v.Email, DepartmentCode: v.DepartmentCode,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListClassrooms(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListClassrooms(r.Context(), &classroom.FindParams{
		Search:       r.URL.Query().Get("search"),
		BuildingCode: r.URL.Query().Get("building"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*classroomResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &classroomResponse{
			ID: v.ID.String(), Code: v.Code, Name: v.Name,
			BuildingCode: v.BuildingCode, Capacity: v.Capacity,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListStudentGroups(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListStudentGroups(r.Context(), &studentgroup.FindParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*studentGroupResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &studentGroupResponse{
			ID: v.ID.String(), Code: v.Code, Name: v.Name, Year: v.Year,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListStudents(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListStudents(r.Context(), &student.FindParams{
		Search:    r.URL.Query().Get("search"),
		GroupCode: r.URL.Query().Get("group"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*studentResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &studentResponse{
			ID: v.ID.String(), Code: v.Code, FirstName: v.FirstName, LastName: v.LastName,
			Email: v.Email, GroupCode: v.GroupCode,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) ListCourseInstances(w http.ResponseWriter, r *http.Request) {
	limit, offset := c.pageParams(r)
	items, total, err := c.directory.ListCourseInstances(r.Context(), &courseinstance.FindParams{
		CourseCode:  r.URL.Query().Get("course"),
		TeacherCode: r.URL.Query().Get("teacher"),
		GroupCode:   r.URL.Query().Get("group"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	out := make([]*courseInstanceResponse, 0, len(items))
	for _, v := range items {
		out = append(out, &courseInstanceResponse{
			ID: v.ID.String(), Code: v.Code, CourseCode: v.CourseCode, TeacherCode: v.TeacherCode,
			CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
		})
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &httpapi.ListEnvelope{Items: out, Total: total})
}

func (c *CurriculumAPIController) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	c.app.Logger().WithError(err).WithField("path", r.URL.Path).Error("curriculum api request failed")
	_ = httpapi.WriteError(w, http.StatusInternalServerError, "CURRICULUM_INTERNAL", "internal error", nil)
}
