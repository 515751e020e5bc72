// Package notify sends transactional mail. Callers hand messages to a
// Dispatcher, which delivers them on a worker pool and never reports
// delivery failures back to the request that triggered them.
package notify

import (
	"context"
	"fmt"
	"log/slog"
)

type Kind string

const (
	KindWelcome  Kind = "welcome"
	KindFarewell Kind = "farewell"
)

type Message struct {
	Kind    Kind
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

func Welcome(name, email string) Message {
	return Message{
		Kind:    KindWelcome,
		ToName:  name,
		ToEmail: email,
		Subject: "Thanks for trying the Task Manager app!",
		Body:    fmt.Sprintf("Welcome  to the application, %s. Let me know how you get along with the app.", name),
	}
}

func Farewell(name, email string) Message {
	return Message{
		Kind:    KindFarewell,
		ToName:  name,
		ToEmail: email,
		Subject: "Good-bye from Task Manager",
		Body:    fmt.Sprintf("%s, we're sorry to see you go.", name),
	}
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct{ log *slog.Logger }

func NewLogNotifier(log *slog.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.log.InfoContext(ctx, "mail (not sent)",
		"kind", msg.Kind, "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
