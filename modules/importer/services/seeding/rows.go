package seeding

// Row payloads as produced by the validation worker. Field names follow the
// worker's JSON contract.

type DepartmentRow struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CourseRow struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	DepartmentCode string `json:"departmentCode"`
	WeeklyHours    int    `json:"weeklyHours"`
}

type TeacherRow struct {
	Code           string `json:"code"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	DepartmentCode string `json:"departmentCode"`
}

type ClassroomRow struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	BuildingCode string `json:"buildingCode"`
	Capacity     int    `json:"capacity"`
}

type StudentGroupRow struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

type StudentRow struct {
	Code      string `json:"code"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	GroupCode string `json:"groupCode"`
}

type GroupCourseAssignmentRow struct {
	GroupCode   string `json:"groupCode"`
	CourseCode  string `json:"courseCode"`
	TeacherCode string `json:"teacherCode"`
}
