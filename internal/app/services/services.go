package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/pkg/email"
	"github.com/tilab/tilab/internal/pkg/idgen"
	"github.com/tilab/tilab/internal/pkg/logger"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

// EventPublisher receives change events after a mutation commits
type EventPublisher interface {
	Publish(event websocket.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(websocket.Event) {}

// Deps are the collaborators shared by every service
type Deps struct {
	Repos     *repositories.Repositories
	Simulator *simulation.Simulator
	Events    EventPublisher
	Email     email.EmailService
	IDs       *idgen.Generator
	Now       func() time.Time
	Logger    *zerolog.Logger
}

// Services groups the service instances
type Services struct {
	ComponentService ComponentService
	CourseService    CourseService
	SectionService   SectionService
	KitService       KitService
	LoanService      LoanService
}

// NewServices builds every record service from deps
func NewServices(deps Deps) *Services {
	b := newBase(deps)
	return &Services{
		ComponentService: NewComponentService(b),
		CourseService:    NewCourseService(b),
		SectionService:   NewSectionService(b),
		KitService:       NewKitService(b),
		LoanService:      NewLoanService(b),
	}
}

// base carries what every service needs: the store, the optional simulator,
// the event publisher and the clock.
type base struct {
	repos  *repositories.Repositories
	store  store.Store
	sim    *simulation.Simulator
	events EventPublisher
	email  email.EmailService
	ids    *idgen.Generator
	now    func() time.Time
	logger zerolog.Logger
}

func newBase(deps Deps) *base {
	b := &base{
		repos:  deps.Repos,
		store:  deps.Repos.Store,
		sim:    deps.Simulator,
		events: deps.Events,
		email:  deps.Email,
		ids:    deps.IDs,
		now:    deps.Now,
		logger: logger.WithComponent("services"),
	}
	if b.events == nil {
		b.events = noopPublisher{}
	}
	if b.ids == nil {
		b.ids = idgen.Default
	}
	if b.now == nil {
		b.now = time.Now
	}
	if deps.Logger != nil {
		b.logger = *deps.Logger
	}
	return b
}

// read simulates latency for op then runs fn in a read-only transaction
func (b *base) read(ctx context.Context, kind simulation.Kind, op string, fn func(tx store.Tx) error) error {
	if err := b.sim.Run(ctx, kind, op); err != nil {
		return err
	}
	return b.store.View(ctx, fn)
}

// write simulates latency and failure for op then runs fn in a read-write transaction
func (b *base) write(ctx context.Context, kind simulation.Kind, op string, fn func(tx store.Tx) error) error {
	if err := b.sim.Run(ctx, kind, op); err != nil {
		return err
	}
	return b.store.Update(ctx, fn)
}

func (b *base) publish(eventType, resource, id, parentID string) {
	b.events.Publish(websocket.Event{
		Type:      eventType,
		Resource:  resource,
		ID:        id,
		ParentID:  parentID,
		Timestamp: b.now(),
	})
}

// optionalText trims s and returns nil when nothing is left
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalTextPtr is optionalText for an already optional input
func optionalTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optionalText(*s)
}
