package modules

import (
	"github.com/campusware/campus/modules/curriculum"
	"github.com/campusware/campus/modules/importer"
	"github.com/campusware/campus/modules/schedule"
	"github.com/campusware/campus/pkg/application"
)

var BuiltInModules = []application.Module{
	curriculum.NewModule(),
	importer.NewModule(),
	schedule.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
