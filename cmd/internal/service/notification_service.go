package service

import (
	"context"

	"classaction/cmd/internal/domain/entity"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/domain/registry"
	"classaction/cmd/internal/infrastructure/aws/mail"

	"github.com/labstack/gommon/log"
)

// NotificationService mails the submitter, and optionally the
// administrator, once a registration is stored. Failures are only logged.
type NotificationService struct {
	Mailer   mail.Mailer
	Registry *registry.Registry

	Confirmations      bool
	AdminNotifications bool
	AdminEmail         string
}

func NewNotificationService(mailer mail.Mailer, reg *registry.Registry) *NotificationService {
	return &NotificationService{
		Mailer:        mailer,
		Registry:      reg,
		Confirmations: true,
	}
}

func (n *NotificationService) Handle(ctx context.Context, event events.Event) {
	e, ok := event.(*events.RegistrationReceived)
	if !ok {
		return
	}

	if n.Confirmations {
		n.sendConfirmation(ctx, e.Record)
	}
	if n.AdminNotifications && n.AdminEmail != "" {
		n.sendAdminNotification(ctx, e.Record)
	}
}

func (n *NotificationService) sendConfirmation(ctx context.Context, record *entity.Shareholder) {
	email, err := n.Registry.ConfirmationEmail(record)
	if err != nil {
		log.Errorf("failed to render confirmation for #%d: %v", record.ID, err)
		return
	}

	err = n.Mailer.Send(ctx, &mail.Message{To: record.Email, Subject: email.Subject, HTML: email.HTML})
	if err != nil {
		log.Errorf("failed to send confirmation to %s (%s #%d): %v", record.Email, record.Company, record.ID, err)
		return
	}
	log.Debugf("confirmation sent to %s (%s #%d)", record.Email, record.Company, record.ID)
}

func (n *NotificationService) sendAdminNotification(ctx context.Context, record *entity.Shareholder) {
	email, err := n.Registry.AdminNotification(record)
	if err != nil {
		log.Errorf("failed to render admin notification for #%d: %v", record.ID, err)
		return
	}

	err = n.Mailer.Send(ctx, &mail.Message{To: n.AdminEmail, Subject: email.Subject, HTML: email.HTML})
	if err != nil {
		log.Errorf("failed to send admin notification for %s #%d: %v", record.Company, record.ID, err)
	}
}
