// Package seed loads the laboratory's demo inventory into an empty store.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/tilab/tilab/internal/app/models"
	appRepos "github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/pkg/idgen"
	"github.com/tilab/tilab/internal/store"
)

// Result reports which collections were written
type Result struct {
	Components int
	Courses    int
	Kits       int
}

type componentSeed struct {
	name        string
	quantity    int
	description string
}

var demoComponents = []componentSeed{
	{"Resistencia 10k Ω", 150, "Resistencia de carbón 1/4W tolerancia 5%"},
	{"LED Rojo 5mm", 75, "LED de alta intensidad rojo 5mm 20mA"},
	{"Arduino Uno R3", 12, "Placa de desarrollo Arduino Uno R3"},
	{"Protoboard 830 puntos", 25, "Protoboard sin soldadura 830 puntos"},
	{"Servomotor SG90", 30, "Servomotor micro SG90 9g 180°"},
}

type courseSeed struct {
	name        string
	description string
	sections    [][2]string
}

var demoCourses = []courseSeed{
	{"Introducción a la Electrónica", "Curso básico de conceptos fundamentales de electrónica", [][2]string{
		{"Sección 1", "Dr. Juan Pérez"},
		{"Sección 2", "Ing. María González"},
	}},
	{"Programación con Arduino", "Curso práctico de programación y prototipado con Arduino", [][2]string{
		{"Sección A", "MSc. Carlos Rodríguez"},
	}},
	{"Robótica Básica", "Introducción a la robótica y automatización", nil},
}

// demo kit lines by component name
var demoKitItems = []struct {
	component string
	quantity  int
}{
	{"Resistencia 10k Ω", 10},
	{"LED Rojo 5mm", 5},
}

// CreateDefaultData writes the demo records for every collection whose key is
// still absent. Collections that exist, even empty, are left alone.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, ids *idgen.Generator, lgr zerolog.Logger) (Result, error) {
	if ids == nil {
		ids = idgen.Default
	}
	now := time.Now()
	var res Result

	lgr.Info().Msg("Checking/Creating default data (components/courses/kits)...")

	err := repos.Store.Update(ctx, func(tx store.Tx) error {
		ok, err := repos.ComponentRepository.Exists(tx)
		if err != nil {
			return err
		}
		if !ok {
			list := make([]appModels.Component, 0, len(demoComponents))
			for _, c := range demoComponents {
				desc := c.description
				list = append(list, appModels.Component{
					ID:          ids.New(appModels.PrefixComponent),
					Name:        c.name,
					Quantity:    c.quantity,
					Description: &desc,
					CreatedAt:   now,
					UpdatedAt:   now,
				})
			}
			if err := repos.ComponentRepository.SaveAll(tx, list); err != nil {
				return err
			}
			res.Components = len(list)
		}

		ok, err = repos.CourseRepository.Exists(tx)
		if err != nil {
			return err
		}
		if !ok {
			list := make([]appModels.Course, 0, len(demoCourses))
			for _, c := range demoCourses {
				desc := c.description
				course := appModels.Course{
					ID:          ids.New(appModels.PrefixCourse),
					Name:        c.name,
					Description: &desc,
					Sections:    []appModels.Section{},
					CreatedAt:   now,
					UpdatedAt:   now,
				}
				for _, s := range c.sections {
					course.Sections = append(course.Sections, appModels.Section{
						ID:        ids.New(appModels.PrefixSection),
						Name:      s[0],
						Professor: s[1],
						CreatedAt: now,
						UpdatedAt: now,
					})
				}
				list = append(list, course)
			}
			if err := repos.CourseRepository.SaveAll(tx, list); err != nil {
				return err
			}
			res.Courses = len(list)
		}

		ok, err = repos.KitRepository.Exists(tx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		components, err := repos.ComponentRepository.List(tx)
		if err != nil {
			return err
		}
		byName := make(map[string]string, len(components))
		for _, c := range components {
			byName[c.Name] = c.ID
		}

		items := make([]appModels.KitItem, 0, len(demoKitItems))
		for _, it := range demoKitItems {
			if id, found := byName[it.component]; found {
				items = append(items, appModels.KitItem{ComponentID: id, Quantity: it.quantity})
			}
		}
		if len(items) == 0 {
			lgr.Warn().Msg("Demo kit components not found, skipping kits")
			return nil
		}

		code := "KIT-001"
		desc := "Kit con componentes básicos para prácticas de electrónica"
		kits := []appModels.Kit{{
			ID:          ids.New(appModels.PrefixKit),
			Code:        &code,
			Name:        "Kit de Electrónica Básico",
			Description: &desc,
			Items:       items,
			Status:      appModels.KitAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}}
		if err := repos.KitRepository.SaveAll(tx, kits); err != nil {
			return err
		}
		res.Kits = len(kits)
		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default data")
		return Result{}, err
	}

	lgr.Info().
		Int("components", res.Components).
		Int("courses", res.Courses).
		Int("kits", res.Kits).
		Msg("Default data check complete")
	return res, nil
}
