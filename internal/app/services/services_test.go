package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/app/models"
	"github.com/tilab/tilab/internal/app/models/dto"
	"github.com/tilab/tilab/internal/app/repositories"
	"github.com/tilab/tilab/internal/pkg/simulation"
	"github.com/tilab/tilab/internal/pkg/websocket"
	"github.com/tilab/tilab/internal/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *recordingPublisher) Publish(e websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 10)}
}

func (m *fakeMailer) SendLoanCreatedEmail(loan *models.Loan) error {
	m.sent <- "created:" + loan.BorrowerEmail
	return nil
}

func (m *fakeMailer) SendLoanReturnedEmail(loan *models.Loan) error {
	m.sent <- "returned:" + loan.BorrowerEmail
	return nil
}

type testEnv struct {
	svc    *Services
	repos  *repositories.Repositories
	events *recordingPublisher
	mailer *fakeMailer
	now    time.Time
}

func newTestEnv(t *testing.T, sim *simulation.Simulator) *testEnv {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { _ = st.Close() })

	env := &testEnv{
		repos:  repositories.NewRepositories(st),
		events: &recordingPublisher{},
		mailer: newFakeMailer(),
		now:    time.Date(2025, 4, 23, 12, 0, 0, 0, time.UTC),
	}
	nop := zerolog.Nop()
	env.svc = NewServices(Deps{
		Repos:     env.repos,
		Simulator: sim,
		Events:    env.events,
		Email:     env.mailer,
		Now:       func() time.Time { return env.now },
		Logger:    &nop,
	})
	return env
}

func (e *testEnv) component(t *testing.T, name string, qty string, serial bool) *models.Component {
	t.Helper()
	c, err := e.svc.ComponentService.CreateComponent(context.Background(), &dto.ComponentRequest{
		Name:                 name,
		Quantity:             dto.NewQuantityInput(qty),
		RequiresSerialNumber: serial,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) kit(t *testing.T, name string, items ...dto.KitItemRequest) *models.Kit {
	t.Helper()
	k, err := e.svc.KitService.CreateKit(context.Background(), &dto.CreateKitRequest{Name: name, Items: items})
	require.NoError(t, err)
	return k
}

func strPtr(s string) *string {
	return &s
}
