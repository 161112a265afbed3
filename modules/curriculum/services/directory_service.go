package services

import (
	"context"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/student"
	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
)

// DirectoryService is the read side of the curriculum module: paginated
// listings over the entities the import pipeline seeds.
type DirectoryService struct {
	departments     department.Repository
	courses         course.Repository
	teachers        teacher.Repository
	classrooms      classroom.Repository
	studentGroups   studentgroup.Repository
	students        student.Repository
	courseInstances courseinstance.Repository
}

func NewDirectoryService(
	departments department.Repository,
	courses course.Repository,
	teachers teacher.Repository,
	classrooms classroom.Repository,
	studentGroups studentgroup.Repository,
	students student.Repository,
	courseInstances courseinstance.Repository,
) *DirectoryService {
	return &DirectoryService{
		departments:     departments,
		courses:         courses,
		teachers:        teachers,
		classrooms:      classrooms,
		studentGroups:   studentGroups,
		students:        students,
		courseInstances: courseInstances,
	}
}

func (s *DirectoryService) ListDepartments(ctx context.Context, params *department.FindParams) ([]*department.Department, int64, error) {
	if params == nil {
		params = &department.FindParams{}
	}
	items, err := s.departments.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.departments.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListCourses(ctx context.Context, params *course.FindParams) ([]*course.Course, int64, error) {
	if params == nil {
		params = &course.FindParams{}
	}
	items, err := s.courses.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.courses.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListTeachers(ctx context.Context, params *teacher.FindParams) ([]*teacher.Teacher, int64, error) {
	if params == nil {
		params = &teacher.FindParams{}
	}
	items, err := s.teachers.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.teachers.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListClassrooms(ctx context.Context, params *classroom.FindParams) ([]*classroom.Classroom, int64, error) {
	if params == nil {
		params = &classroom.FindParams{}
	}
	items, err := s.classrooms.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.classrooms.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListStudentGroups(ctx context.Context, params *studentgroup.FindParams) ([]*studentgroup.StudentGroup, int64, error) {
	if params == nil {
		params = &studentgroup.FindParams{}
	}
	items, err := s.studentGroups.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.studentGroups.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListStudents(ctx context.Context, params *student.FindParams) ([]*student.Student, int64, error) {
	if params == nil {
		params = &student.FindParams{}
	}
	items, err := s.students.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.students.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (s *DirectoryService) ListCourseInstances(ctx context.Context, params *courseinstance.FindParams) ([]*courseinstance.CourseInstance, int64, error) {
	if params == nil {
		params = &courseinstance.FindParams{}
	}
	items, err := s.courseInstances.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.courseInstances.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}
