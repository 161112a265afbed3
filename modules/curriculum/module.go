package curriculum

import (
	"github.com/campusware/campus/modules/curriculum/infrastructure/persistence"
	"github.com/campusware/campus/modules/curriculum/presentation/controllers"
	"github.com/campusware/campus/modules/curriculum/services"
	"github.com/campusware/campus/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.RegisterServices(
		services.NewDirectoryService(
			persistence.NewDepartmentRepository(),
			persistence.NewCourseRepository(),
			persistence.NewTeacherRepository(),
			persistence.NewClassroomRepository(),
			persistence.NewStudentGroupRepository(),
			persistence.NewStudentRepository(),
			persistence.NewCourseInstanceRepository(),
		),
	)
	app.RegisterControllers(
		controllers.NewCurriculumAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "curriculum"
}
