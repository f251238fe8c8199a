package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/database"
	"classaction/cmd/internal/domain/database/repository"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/infrastructure/aws/mail"
	"classaction/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

const testNow int64 = 1_750_000_000_000

type fixture struct {
	repo     *repository.DefaultShareholderRepository
	registry *registry.Registry
	validate *validator.Validate
	guard    *Guard
	bus      *events.Bus
	mailer   *fakeMailer
	events   *eventRecorder
	intake   *DefaultIntakeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory("service_" + name)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	reg, err := registry.New([]string{"atos", "urpea"}, "info@upra.fr")
	require.NoError(t, err)

	f := &fixture{
		repo:     repository.NewShareholderRepository(db),
		registry: reg,
		validate: validators.New(),
		mailer:   &fakeMailer{},
		events:   &eventRecorder{},
	}
	f.guard = NewGuard(f.validate, reg, f.repo)
	f.bus = events.NewBus(f.events)
	f.bus.Dispatch = events.Inline

	f.intake = NewIntakeService(f.repo, f.guard, reg, f.bus, "atos")
	f.intake.Now = fixedClock(testNow)
	return f
}

// submit registers a valid shareholder and fails the test otherwise.
func (f *fixture) submit(t *testing.T, company, name, email, phone, shares, price string) *contract.RegistrationResponse {
	t.Helper()
	resp, apierr := f.intake.Submit(context.Background(), &contract.RegistrationRequest{
		Company:       company,
		Name:          name,
		Email:         email,
		Phone:         phone,
		ShareCount:    contract.LooseNumber(shares),
		PurchasePrice: contract.LooseNumber(price),
	}, contract.Origin{IPAddress: "203.0.113.7"})
	require.Nil(t, apierr)
	require.NotNil(t, resp)
	return resp
}

func fixedClock(millis int64) func() int64 {
	return func() int64 { return millis }
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*mail.Message
	// fail lists recipients whose delivery fails.
	fail map[string]bool
}

func (m *fakeMailer) Send(_ context.Context, msg *mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[msg.To] {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) to(addr string) []*mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*mail.Message
	for _, msg := range m.sent {
		if msg.To == addr {
			out = append(out, msg)
		}
	}
	return out
}

type eventRecorder struct {
	mu       sync.Mutex
	received []events.Event
}

func (r *eventRecorder) Handle(_ context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, event)
}

func (r *eventRecorder) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.received {
		if e.GetType() == t {
			out = append(out, e)
		}
	}
	return out
}

type fakeGeo struct {
	country string
	err     error
	asked   []string
}

func (g *fakeGeo) Country(_ context.Context, ip string) (string, error) {
	g.asked = append(g.asked, ip)
	return g.country, g.err
}

type fakeArchive struct {
	keys []string
	data [][]byte
	err  error
}

func (a *fakeArchive) UploadFile(_ context.Context, data []byte, key, _ string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	a.data = append(a.data, data)
	return key, nil
}
