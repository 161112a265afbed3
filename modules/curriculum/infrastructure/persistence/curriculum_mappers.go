package persistence

import (
	"github.com/google/uuid"

	"github.com/campusware/campus/modules/curriculum/domain/entities/classroom"
	"github.com/campusware/campus/modules/curriculum/domain/entities/course"
	"github.com/campusware/campus/modules/curriculum/domain/entities/courseinstance"
	"github.com/campusware/campus/modules/curriculum/domain/entities/department"
	"github.com/campusware/campus/modules/curriculum/domain/entities/student"
	"github.com/campusware/campus/modules/curriculum/domain/entities/studentgroup"
	"github.com/campusware/campus/modules/curriculum/domain/entities/teacher"
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence/models"
)

func toDomainDepartment(row *models.Department) *department.Department {
	return &department.Department{
		ID:        uuid.MustParse(row.ID),
		Code:      row.Code,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainCourse(row *models.Course) *course.Course {
	return &course.Course{
		ID:             uuid.MustParse(row.ID),
		Code:           row.Code,
		Name:           row.Name,
		DepartmentCode: row.DepartmentCode,
		WeeklyHours:    row.WeeklyHours,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainTeacher(row *models.Teacher) *teacher.Teacher {
	return &teacher.Teacher{
		ID:             uuid.MustParse(row.ID),
		Code:           row.Code,
		FirstName:      row.FirstName,
		LastName:       row.LastName,
		Email:          row.Email,
		DepartmentCode: row.DepartmentCode,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainClassroom(row *models.Classroom) *classroom.Classroom {
	return &classroom.Classroom{
		ID:           uuid.MustParse(row.ID),
		Code:         row.Code,
		Name:         row.Name,
		BuildingCode: row.BuildingCode.String,
		Capacity:     row.Capacity,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainStudentGroup(row *models.StudentGroup) *studentgroup.StudentGroup {
	return &studentgroup.StudentGroup{
		ID:        uuid.MustParse(row.ID),
		Code:      row.Code,
		Name:      row.Name,
		Year:      row.Year,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainStudent(row *models.Student) *student.Student {
	return &student.Student{
		ID:        uuid.MustParse(row.ID),
		Code:      row.Code,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		GroupCode: row.GroupCode,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toDomainCourseInstance(row *models.CourseInstance) *courseinstance.CourseInstance {
	return &courseinstance.CourseInstance{
		ID:          uuid.MustParse(row.ID),
		Code:        row.Code,
		CourseCode:  row.CourseCode,
		TeacherCode: row.TeacherCode,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
