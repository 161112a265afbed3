package seeding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/student"
	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
	"github.com/campusware/campus/modules/curriculum/domain/naturalkey"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence"
	"github.com/campusware/campus/modules/importer/domain/messages"
)

// Handler seeds a single validated row. Implementations are idempotent:
// replaying a row converges on the same stored state.
type Handler interface {
	SeedOne(ctx context.Context, row json.RawMessage, campusID string) error
}

// Repositories bundles the stores the handlers write to.
type Repositories struct {
	Departments     department.Repository
	Courses         course.Repository
	Teachers        teacher.Repository
	Classrooms      classroom.Repository
	StudentGroups   studentgroup.Repository
	Students        student.Repository
	CourseInstances courseinstance.Repository
}

// Handlers builds the category dispatch table.
func Handlers(repos Repositories) map[messages.Category]Handler {
	return map[messages.Category]Handler{
		messages.CategoryDepartment:            &departmentHandler{repos.Departments},
		messages.CategoryCourse:                &courseHandler{repos.Courses},
		messages.CategoryTeacher:               &teacherHandler{repos.Teachers},
		messages.CategoryClassroom:             &classroomHandler{repos.Classrooms},
		messages.CategoryStudentGroup:          &studentGroupHandler{repos.StudentGroups},
		messages.CategoryStudent:               &studentHandler{repos.Students},
		messages.CategoryGroupCourseAssignment: &assignmentHandler{repos.Courses, repos.Teachers, repos.CourseInstances},
	}
}

type departmentHandler struct {
	departments department.Repository
}

func (h *departmentHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto DepartmentRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.departments.Upsert(ctx, &department.Department{
		Code: naturalkey.Qualify(campusID, dto.Code),
		Name: dto.Name,
	})
}

type courseHandler struct {
	courses course.Repository
}

func (h *courseHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto CourseRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.courses.Upsert(ctx, &course.Course{
		Code:           naturalkey.Qualify(campusID, dto.Code),
		Name:           dto.Name,
		DepartmentCode: naturalkey.Qualify(campusID, dto.DepartmentCode),
		WeeklyHours:    dto.WeeklyHours,
	})
}

type teacherHandler struct {
	teachers teacher.Repository
}

func (h *teacherHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto TeacherRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.teachers.Upsert(ctx, &teacher.Teacher{
		Code:           naturalkey.Qualify(campusID, dto.Code),
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		Email:          dto.Email,
		DepartmentCode: naturalkey.Qualify(campusID, dto.DepartmentCode),
	})
}

type classroomHandler struct {
	classrooms classroom.Repository
}

func (h *classroomHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto ClassroomRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.classrooms.Upsert(ctx, &classroom.Classroom{
		Code:         naturalkey.Qualify(campusID, dto.Code),
		Name:         dto.Name,
		BuildingCode: naturalkey.Qualify(campusID, dto.BuildingCode),
		Capacity:     dto.Capacity,
	})
}

type studentGroupHandler struct {
	groups studentgroup.Repository
}

func (h *studentGroupHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto StudentGroupRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.groups.Upsert(ctx, &studentgroup.StudentGroup{
		Code: naturalkey.Qualify(campusID, dto.Code),
		Name: dto.Name,
		Year: dto.Year,
	})
}

type studentHandler struct {
	students student.Repository
}

func (h *studentHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto StudentRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}
	return h.students.Upsert(ctx, &student.Student{
		Code:      naturalkey.Qualify(campusID, dto.Code),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		GroupCode: naturalkey.Qualify(campusID, dto.GroupCode),
	})
}

// assignmentHandler derives a course instance from a group/course/teacher
// triple and links the group to it. The course and teacher must already be
// seeded; a missing group surfaces through the link's foreign key.
type assignmentHandler struct {
	courses   course.Repository
	teachers  teacher.Repository
	instances courseinstance.Repository
}

func (h *assignmentHandler) SeedOne(ctx context.Context, row json.RawMessage, campusID string) error {
	var dto GroupCourseAssignmentRow
	if err := json.Unmarshal(row, &dto); err != nil {
		return err
	}

	courseCode := naturalkey.Qualify(campusID, dto.CourseCode)
	groupCode := naturalkey.Qualify(campusID, dto.GroupCode)
	teacherCode := naturalkey.Qualify(campusID, dto.TeacherCode)

	if _, err := h.courses.GetByCode(ctx, courseCode); err != nil {
		if errors.Is(err, persistence.ErrCourseNotFound) {
			return fmt.Errorf("%w: course %q", ErrNotFound, dto.CourseCode)
		}
		return err
	}
	ok, err := h.teachers.Exists(ctx, teacherCode)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: teacher %q", ErrNotFound, dto.TeacherCode)
	}

	instanceCode := naturalkey.Qualify(campusID, naturalkey.Compose(dto.CourseCode, dto.GroupCode, dto.TeacherCode))
	if err := h.instances.Upsert(ctx, &courseinstance.CourseInstance{
		Code:        instanceCode,
		CourseCode:  courseCode,
		TeacherCode: teacherCode,
	}); err != nil {
		return err
	}
	return h.instances.LinkGroup(ctx, instanceCode, groupCode)
}
