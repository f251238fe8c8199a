package mail

import (
	"context"
	"errors"
	netmail "net/mail"
	"strings"

	"github.com/labstack/gommon/log"
)

var ErrInvalidRecipient = errors.New("mail: invalid recipient")

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers one HTML message. Retries, if any, are the transport's business.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Sender is the identity every outgoing message carries.
type Sender struct {
	Name    string
	Address string
	ReplyTo string
}

func (s Sender) From() string {
	addr := netmail.Address{Name: s.Name, Address: s.Address}
	return addr.String()
}

func validRecipient(to string) error {
	if strings.TrimSpace(to) == "" {
		return ErrInvalidRecipient
	}
	if _, err := netmail.ParseAddress(to); err != nil {
		return errors.Join(ErrInvalidRecipient, err)
	}
	return nil
}

// LogMailer only logs the messages. Used when SES is disabled.
type LogMailer struct {
	Sender Sender
}

func (l *LogMailer) Send(_ context.Context, msg *Message) error {
	if err := validRecipient(msg.To); err != nil {
		return err
	}

	log.Infof("mail (not sent): from=%s to=%s subject=%q bytes=%d", l.Sender.From(), msg.To, msg.Subject, len(msg.HTML))
	return nil
}
