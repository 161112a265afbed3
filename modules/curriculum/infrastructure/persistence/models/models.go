package models

import (
	"database/sql"
	"time"
)

type Department struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Course struct {
	ID             string
	Code           string
	Name           string
	DepartmentCode string
	WeeklyHours    int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Person struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Teacher struct {
	ID             string
	Code           string
	PersonID       string
	DepartmentCode string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	FirstName string
	LastName  string
	Email     string
}

type Classroom struct {
	ID           string
	Code         string
	Name         string
	BuildingCode sql.NullString
	Capacity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StudentGroup struct {
	ID        string
	Code      string
	Name      string
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Student struct {
	ID        string
	Code      string
	PersonID  string
	GroupCode string
	CreatedAt time.Time
	UpdatedAt time.Time

	FirstName string
	LastName  string
	Email     string
}

type CourseInstance struct {
	ID          string
	Code        string
	CourseCode  string
	TeacherCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
