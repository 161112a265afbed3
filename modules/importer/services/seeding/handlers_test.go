package seeding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence"
)

type fakeDepartmentRepo struct {
	department.Repository
	upserted []*department.Department
}

func (f *fakeDepartmentRepo) Upsert(_ context.Context, d *department.Department) error {
	f.upserted = append(f.upserted, d)
	return nil
}

type fakeClassroomRepo struct {
	classroom.Repository
	upserted []*classroom.Classroom
}

func (f *fakeClassroomRepo) Upsert(_ context.Context, c *classroom.Classroom) error {
	f.upserted = append(f.upserted, c)
	return nil
}

type fakeCourseRepo struct {
	course.Repository
	known map[string]bool
}

func (f *fakeCourseRepo) GetByCode(_ context.Context, code string) (*course.Course, error) {
	if !f.known[code] {
		return nil, persistence.ErrCourseNotFound
	}
	return &course.Course{Code: code}, nil
}

type fakeTeacherRepo struct {
	teacher.Repository
	known map[string]bool
}

func (f *fakeTeacherRepo) Exists(_ context.Context, code string) (bool, error) {
	return f.known[code], nil
}

type fakeInstanceRepo struct {
	courseinstance.Repository
	upserted []*courseinstance.CourseInstance
	links    [][2]string
}

func (f *fakeInstanceRepo) Upsert(_ context.Context, ci *courseinstance.CourseInstance) error {
	f.upserted = append(f.upserted, ci)
	return nil
}

func (f *fakeInstanceRepo) LinkGroup(_ context.Context, instanceCode, groupCode string) error {
	f.links = append(f.links, [2]string{instanceCode, groupCode})
	return nil
}

func TestDepartmentHandlerQualifiesCode(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	h := &departmentHandler{repo}

	row := json.RawMessage(`{"code":"MATH","name":"Mathematics"}`)
	require.NoError(t, h.SeedOne(context.Background(), row, "north"))

	require.Len(t, repo.upserted, 1)
	require.Equal(t, "north:MATH", repo.upserted[0].Code)
	require.Equal(t, "Mathematics", repo.upserted[0].Name)
}

func TestDepartmentHandlerWithoutCampus(t *testing.T) {
	repo := &fakeDepartmentRepo{}
	h := &departmentHandler{repo}

	row := json.RawMessage(`{"code":"MATH","name":"Mathematics"}`)
	require.NoError(t, h.SeedOne(context.Background(), row, ""))

	require.Equal(t, "MATH", repo.upserted[0].Code)
}

func TestClassroomHandlerQualifiesBuildingCode(t *testing.T) {
	repo := &fakeClassroomRepo{}
	h := &classroomHandler{repo}

	row := json.RawMessage(`{"code":"R-101","name":"Lab","buildingCode":"B1","capacity":30}`)
	require.NoError(t, h.SeedOne(context.Background(), row, "north"))

	require.Len(t, repo.upserted, 1)
	require.Equal(t, "north:R-101", repo.upserted[0].Code)
	require.Equal(t, "north:B1", repo.upserted[0].BuildingCode)
}

func TestClassroomHandlerWithoutBuilding(t *testing.T) {
	repo := &fakeClassroomRepo{}
	h := &classroomHandler{repo}

	row := json.RawMessage(`{"code":"R-101","name":"Lab","capacity":30}`)
	require.NoError(t, h.SeedOne(context.Background(), row, "north"))

	require.Equal(t, "", repo.upserted[0].BuildingCode)
}

func TestAssignmentHandlerLinksGroup(t *testing.T) {
	courses := &fakeCourseRepo{known: map[string]bool{"north:CS101": true}}
	teachers := &fakeTeacherRepo{known: map[string]bool{"north:T-9": true}}
	instances := &fakeInstanceRepo{}
	h := &assignmentHandler{courses, teachers, instances}

	row := json.RawMessage(`{"groupCode":"G-1","courseCode":"CS101","teacherCode":"T-9"}`)
	require.NoError(t, h.SeedOne(context.Background(), row, "north"))

	require.Len(t, instances.upserted, 1)
	instance := instances.upserted[0]
	require.Equal(t, "north:CS101:G-1:T-9", instance.Code)
	require.Equal(t, "north:CS101", instance.CourseCode)
	require.Equal(t, "north:T-9", instance.TeacherCode)

	require.Equal(t, [][2]string{{"north:CS101:G-1:T-9", "north:G-1"}}, instances.links)
}

func TestAssignmentHandlerMissingCourse(t *testing.T) {
	h := &assignmentHandler{
		&fakeCourseRepo{known: map[string]bool{}},
		&fakeTeacherRepo{known: map[string]bool{"T-9": true}},
		&fakeInstanceRepo{},
	}

	row := json.RawMessage(`{"groupCode":"G-1","courseCode":"CS101","teacherCode":"T-9"}`)
	err := h.SeedOne(context.Background(), row, "")

	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssignmentHandlerMissingTeacher(t *testing.T) {
	instances := &fakeInstanceRepo{}
	h := &assignmentHandler{
		&fakeCourseRepo{known: map[string]bool{"CS101": true}},
		&fakeTeacherRepo{known: map[string]bool{}},
		instances,
	}

	row := json.RawMessage(`{"groupCode":"G-1","courseCode":"CS101","teacherCode":"T-9"}`)
	err := h.SeedOne(context.Background(), row, "")

	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, instances.upserted)
}

func TestAssignmentHandlerIsIdempotent(t *testing.T) {
	courses := &fakeCourseRepo{known: map[string]bool{"CS101": true}}
	teachers := &fakeTeacherRepo{known: map[string]bool{"T-9": true}}
	instances := &fakeInstanceRepo{}
	h := &assignmentHandler{courses, teachers, instances}

	row := json.RawMessage(`{"groupCode":"G-1","courseCode":"CS101","teacherCode":"T-9"}`)
	require.NoError(t, h.SeedOne(context.Background(), row, ""))
	require.NoError(t, h.SeedOne(context.Background(), row, ""))

	require.Equal(t, instances.upserted[0].Code, instances.upserted[1].Code)
}

func TestHandlerRejectsMalformedRow(t *testing.T) {
	h := &departmentHandler{&fakeDepartmentRepo{}}

	err := h.SeedOne(context.Background(), json.RawMessage(`{"code":`), "")

	require.Error(t, err)
	var syntaxErr *json.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
}
