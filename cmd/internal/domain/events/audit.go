package events

import (
	"context"

	"github.com/labstack/gommon/log"
)

// AuditLogger writes administrative mutations to the application log.
type AuditLogger struct{}

func (AuditLogger) Handle(_ context.Context, event Event) {
	switch e := event.(type) {
	case *RegistrationReceived:
		log.Infof("audit: registration #%d received for %s", e.Record.ID, e.Record.Company)
	case *ShareholderUpdated:
		log.Infof("audit: %s updated shareholder #%d of %s (%v)", e.Actor, e.ID, e.Company, e.Fields)
	case *ShareholdersDeleted:
		log.Infof("audit: %s deleted %d/%d shareholders of %s", e.Actor, e.Deleted, len(e.IDs), e.Company)
	case *BulkEmailSent:
		log.Infof("audit: %s emailed %d/%d shareholders of %s: %q", e.Actor, e.Sent, e.Targeted, e.Company, e.Subject)
	case *RetentionSwept:
		log.Infof("audit: retention removed %d records created before %d", e.Deleted, e.Cutoff)
	}
}
