package service

import (
	"context"
	"testing"

	"classaction/cmd/internal/contract"
	"classaction/cmd/internal/domain/events"
	"classaction/cmd/internal/utils/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmailService(f *fixture) *DefaultEmailService {
	return NewEmailService(f.repo, f.guard, f.mailer, f.validate, f.bus)
}

func TestSendBulkEmailToCompany(t *testing.T) {
	f := newFixture(t)
	s := newEmailService(f)
	f.submit(t, "atos", "Jean Dupont", "jean@x.fr", "0612345678", "1", "1")
	f.submit(t, "atos", "Marie Curie", "marie@x.fr", "0698765432", "1", "1")
	f.submit(t, "urpea", "Paul Martin", "paul@x.fr", "0711111111", "1", "1")
	f.mailer.fail = map[string]bool{"marie@x.fr": true}

	resp, apierr := s.SendBulkEmail(context.Background(), testAdmin, "atos", &contract.BulkEmailRequest{
		Subject: " <b>Hearing</b> date ",
		Message: `<p>The hearing is <strong>set</strong>.</p><script>alert(1)</script>`,
	})
	require.Nil(t, apierr)
	assert.Equal(t, 2, resp.Targeted)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)

	sent := f.mailer.to("jean@x.fr")
	require.Len(t, sent, 1)
	assert.Equal(t, "Hearing date", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "<strong>set</strong>")
	assert.NotContains(t, sent[0].HTML, "script")
	assert.Empty(t, f.mailer.to("paul@x.fr"))

	published := f.events.ofType(events.EventBulkEmailSent)
	require.Len(t, published, 1)
	e := published[0].(*events.BulkEmailSent)
	assert.Equal(t, 2, e.Targeted)
	assert.Equal(t, 1, e.Sent)
}

func TestSendBulkEmailToSelection(t *testing.T) {
	f := newFixture(t)
	s := newEmailService(f)
	f.submit(t, "atos", "Jean Dupont", "jean@x.fr", "0612345678", "1", "1")
	marie := f.submit(t, "atos", "Marie Curie", "marie@x.fr", "0698765432", "1", "1")

	resp, apierr := s.SendBulkEmail(context.Background(), testAdmin, "atos", &contract.BulkEmailRequest{
		Subject: "Update",
		Message: "<p>Hello</p>",
		IDs:     []int64{marie.ID},
	})
	require.Nil(t, apierr)
	assert.Equal(t, 1, resp.Sent)
	assert.Len(t, f.mailer.to("marie@x.fr"), 1)
	assert.Empty(t, f.mailer.to("jean@x.fr"))
}

func TestSendBulkEmailRequiresContent(t *testing.T) {
	f := newFixture(t)
	s := newEmailService(f)
	f.submit(t, "atos", "Jean Dupont", "jean@x.fr", "0612345678", "1", "1")

	_, apierr := s.SendBulkEmail(context.Background(), testAdmin, "atos", &contract.BulkEmailRequest{
		Message: "<script>only a script</script>",
	})
	se, ok := apierr.(*apierror.StructuredError)
	require.True(t, ok)
	assert.Contains(t, se.Errors, "subject")
	assert.Contains(t, se.Errors, "message")
	assert.Empty(t, f.mailer.sent)
}

func TestSendBulkEmailWithoutRecipients(t *testing.T) {
	f := newFixture(t)
	s := newEmailService(f)

	_, apierr := s.SendBulkEmail(context.Background(), testAdmin, "atos", &contract.BulkEmailRequest{Subject: "Hi", Message: "Hello"})
	require.NotNil(t, apierr)
	assert.Equal(t, 404, apierr.Code())
}
