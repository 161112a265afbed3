package schedule

import (
	"github.com/campusware/campus/pkg/application"
	"github.com/campusware/campus/pkg/configuration"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	if configuration.Use().Schedule.BaseURL == "" {
		return nil
	}
	app.RegisterControllers(NewScheduleAPIController(NewClient()))
	return nil
}

func (m *Module) Name() string {
	return "schedule"
}
