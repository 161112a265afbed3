package importer

import (
	"github.com/sirupsen/logrus"

	curriculum "github.com/campusware/campus/modules/curriculum/infrastructure/persistence"
	"github.com/campusware/campus/modules/importer/domain/events"
	"github.com/campusware/campus/modules/importer/infrastructure/msgqueue"
	"github.com/campusware/campus/modules/importer/infrastructure/persistence"
	"github.com/campusware/campus/modules/importer/presentation/controllers"
	"github.com/campusware/campus/modules/importer/services"
	"github.com/campusware/campus/modules/importer/services/seeding"
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	tasks := persistence.NewImportTaskRepository()
	publisher := msgqueue.NewPublisher()

	app.RegisterServices(
		services.NewImportService(tasks, publisher, app.Logger()),
	)
	app.RegisterControllers(
		controllers.NewImportAPIController(app),
	)

	engine := seeding.NewEngine(seeding.Repositories{
		Departments:     curriculum.NewDepartmentRepository(),
		Courses:         curriculum.NewCourseRepository(),
		Teachers:        curriculum.NewTeacherRepository(),
		Classrooms:      curriculum.NewClassroomRepository(),
		StudentGroups:   curriculum.NewStudentGroupRepository(),
		Students:        curriculum.NewStudentRepository(),
		CourseInstances: curriculum.NewCourseInstanceRepository(),
	}, app.Logger())
	consumer := services.NewResultConsumer(tasks, engine, app.EventPublisher(), app.Logger())

	if conf.ImportQueue.ConsumerEnabled {
		app.RegisterJobs(msgqueue.NewConsumer(app.DB(), app.Logger(), consumer.Handle, msgqueue.ConsumerOptions{
			Queue:        msgqueue.ResultsQueue,
			PollInterval: conf.ImportQueue.PollInterval,
			MaxAttempts:  conf.ImportQueue.MaxAttempts,
			MaxBackoff:   conf.ImportQueue.MaxBackoff,
		}))
	}
	if conf.TaskJanitor.Enabled {
		app.RegisterJobs(services.NewTaskJanitor(tasks, conf.TaskJanitor.Interval, conf.TaskJanitor.Retention, app.Logger()))
	}

	log := app.Logger()
	app.EventPublisher().Subscribe(func(e *events.TaskFinished) {
		log.WithFields(logrus.Fields{
			"taskId":     e.TaskID,
			"status":     e.Status,
			"errorCount": e.ErrorCount,
		}).Debug("task finished event published")
	})
	return nil
}

func (m *Module) Name() string {
	return "importer"
}
