package services

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/auth"
	"github.com/baharkarakas/taskmanager-backend/internal/config"
	"github.com/baharkarakas/taskmanager-backend/internal/notify"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/baharkarakas/taskmanager-backend/internal/testutil"
)

type fakeMailer struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (m *fakeMailer) Dispatch(msg notify.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *fakeMailer) sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.msgs...)
}

func testConfig() config.Config {
	return config.Config{
		Store:          "sqlite",
		JWTSecret:      "test-secret",
		JWTIssuer:      "test",
		TokenTTL:       time.Hour,
		MaxSessions:    3,
		BcryptCost:     4,
		AvatarMaxBytes: 1024,
		NotifyWorkers:  1,
		NotifyQueue:    1,
	}
}

type fixture struct {
	repos repo.Repositories
	users *UserService
	tasks *TaskService
	mail  *fakeMailer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWith(t, testConfig())
}

func newFixtureWith(t *testing.T, cfg config.Config) fixture {
	t.Helper()
	repos, _ := testutil.SQLite(t)
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	mail := &fakeMailer{}
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	return fixture{
		repos: repos,
		users: NewUserService(repos, tm, mail, log, cfg),
		tasks: NewTaskService(repos.Tasks, log),
		mail:  mail,
	}
}

func raw(t *testing.T, kv map[string]string) Fields {
	t.Helper()
	f := Fields{}
	for k, v := range kv {
		f[k] = []byte(v)
	}
	return f
}
