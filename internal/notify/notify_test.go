package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/baharkarakas/taskmanager-backend/internal/worker"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestTemplates(t *testing.T) {
	w := Welcome("bob dylan", "bdylan@example.com")
	assert.Equal(t, KindWelcome, w.Kind)
	assert.Equal(t, "Thanks for trying the Task Manager app!", w.Subject)
	assert.Contains(t, w.Body, "bob dylan")

	f := Farewell("bob dylan", "bdylan@example.com")
	assert.Equal(t, KindFarewell, f.Kind)
	assert.Equal(t, "Good-bye from Task Manager", f.Subject)
	assert.Equal(t, "bob dylan, we're sorry to see you go.", f.Body)
}

func TestDispatcher_Delivers(t *testing.T) {
	rec := &recordingNotifier{}
	pool := worker.NewPool(1, 4)
	d := NewDispatcher(rec, pool, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	d.Dispatch(Welcome("a", "a@example.com"))
	d.Dispatch(Farewell("a", "a@example.com"))
	pool.Stop()

	require.Len(t, rec.msgs, 2)
	assert.Equal(t, KindWelcome, rec.msgs[0].Kind)
	assert.Equal(t, KindFarewell, rec.msgs[1].Kind)
}

func TestDispatcher_FailureIsLoggedOnly(t *testing.T) {
	var buf bytes.Buffer
	rec := &recordingNotifier{err: errors.New("smtp down")}
	pool := worker.NewPool(1, 4)
	d := NewDispatcher(rec, pool, slog.New(slog.NewTextHandler(&buf, nil)))

	d.Dispatch(Welcome("a", "a@example.com"))
	pool.Stop()

	assert.Contains(t, buf.String(), "notification failed")
	assert.Contains(t, buf.String(), "smtp down")
}

func TestDispatcher_DropsWhenStopped(t *testing.T) {
	var buf bytes.Buffer
	rec := &recordingNotifier{}
	pool := worker.NewPool(1, 1)
	pool.Stop()
	d := NewDispatcher(rec, pool, slog.New(slog.NewTextHandler(&buf, nil)))

	d.Dispatch(Welcome("a", "a@example.com"))

	assert.Empty(t, rec.msgs)
	assert.Contains(t, buf.String(), "notification dropped")
}

type fakeSG struct {
	got  *mail.SGMailV3
	resp *rest.Response
	err  error
}

func (f *fakeSG) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.got = m
	return f.resp, f.err
}

func TestSendGridNotifier_BuildsPlainTextMail(t *testing.T) {
	sg := &fakeSG{resp: &rest.Response{StatusCode: 202}}
	n := &SendGridNotifier{client: sg, from: mail.NewEmail("Task Manager", "app@example.com")}

	require.NoError(t, n.Send(context.Background(), Welcome("bob", "bob@example.com")))

	require.NotNil(t, sg.got)
	assert.Equal(t, "app@example.com", sg.got.From.Address)
	assert.Equal(t, "Thanks for trying the Task Manager app!", sg.got.Subject)
	require.Len(t, sg.got.Personalizations, 1)
	require.Len(t, sg.got.Personalizations[0].To, 1)
	assert.Equal(t, "bob@example.com", sg.got.Personalizations[0].To[0].Address)
	require.Len(t, sg.got.Content, 1)
	assert.Equal(t, "text/plain", sg.got.Content[0].Type)
}

func TestSendGridNotifier_Errors(t *testing.T) {
	n := &SendGridNotifier{
		client: &fakeSG{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}},
		from:   mail.NewEmail("", "app@example.com"),
	}
	err := n.Send(context.Background(), Farewell("bob", "bob@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	n.client = &fakeSG{err: errors.New("dial tcp: refused")}
	err = n.Send(context.Background(), Farewell("bob", "bob@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
