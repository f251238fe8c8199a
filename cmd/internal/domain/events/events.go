package events

import (
	"context"

	"classaction/cmd/internal/domain/entity"
)

type EventType string

const (
	EventRegistrationReceived EventType = "REGISTRATION_RECEIVED"
	EventShareholderUpdated   EventType = "SHAREHOLDER_UPDATED"
	EventShareholdersDeleted  EventType = "SHAREHOLDERS_DELETED"
	EventBulkEmailSent        EventType = "BULK_EMAIL_SENT"
	EventRetentionSwept       EventType = "RETENTION_SWEPT"
)

type Event interface {
	GetType() EventType
}

// RegistrationReceived holds the freshly persisted record.
type RegistrationReceived struct {
	Record *entity.Shareholder
}

func (*RegistrationReceived) GetType() EventType {
	return EventRegistrationReceived
}

type ShareholderUpdated struct {
	Company string
	ID      int64
	Actor   string
	Fields  []string
}

func (*ShareholderUpdated) GetType() EventType {
	return EventShareholderUpdated
}

type ShareholdersDeleted struct {
	Company string
	IDs     []int64
	Deleted int64
	Actor   string
}

func (*ShareholdersDeleted) GetType() EventType {
	return EventShareholdersDeleted
}

type BulkEmailSent struct {
	Company  string
	Subject  string
	Targeted int
	Sent     int
	Actor    string
}

func (*BulkEmailSent) GetType() EventType {
	return EventBulkEmailSent
}

type RetentionSwept struct {
	Cutoff  int64
	Deleted int64
}

func (*RetentionSwept) GetType() EventType {
	return EventRetentionSwept
}

type Handler interface {
	Handle(ctx context.Context, event Event)
}

type HandlerFunc func(ctx context.Context, event Event)

func (f HandlerFunc) Handle(ctx context.Context, event Event) {
	f(ctx, event)
}
