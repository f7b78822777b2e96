package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/keighl/postmark"
	"github.com/reciclamais/recicla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostmark struct {
	sent []postmark.Email
	err  error
}

func (f *fakePostmark) SendEmail(email postmark.Email) (postmark.EmailResponse, error) {
	f.sent = append(f.sent, email)
	return postmark.EmailResponse{}, f.err
}

var testConfig = recicla.EmailConfig{
	Provider:         "postmark",
	FromAddress:      "noreply@recicla.example.com",
	FromName:         "Recicla",
	ComplaintBaseURL: "https://recicla.example.com/",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEmailService(t *testing.T) {
	_, ok := NewEmailService(discardLogger(), recicla.EmailConfig{Provider: "mock"}).(*logEmailService)
	assert.True(t, ok)

	_, ok = NewEmailService(discardLogger(), testConfig).(*postmarkEmailService)
	assert.True(t, ok)
}

func TestPostmarkEmailService_SendStatusChangedEmail(t *testing.T) {
	client := &fakePostmark{}
	svc := &postmarkEmailService{client: client, logger: discardLogger(), config: testConfig}

	err := svc.SendStatusChangedEmail(context.Background(), "maria@example.com", recicla.StatusChangedEmail{
		Name:        "Maria",
		ComplaintID: "c-1",
		Status:      recicla.ComplaintStatusResolved,
		Notes:       "Area cleaned <today>",
	})
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	email := client.sent[0]
	assert.Equal(t, "Recicla <noreply@recicla.example.com>", email.From)
	assert.Equal(t, "maria@example.com", email.To)
	assert.Equal(t, "Your complaint is now resolved", email.Subject)
	assert.Contains(t, email.TextBody, "Area cleaned <today>")
	assert.Contains(t, email.HtmlBody, "Area cleaned &lt;today&gt;")
	assert.Contains(t, email.HtmlBody, "https://recicla.example.com/complaints/c-1")
	assert.Equal(t, "complaint-status", email.Tag)
}

func TestPostmarkEmailService_SendFailure(t *testing.T) {
	client := &fakePostmark{err: errors.New("401 unauthorized")}
	svc := &postmarkEmailService{client: client, logger: discardLogger(), config: testConfig}

	err := svc.SendStatusChangedEmail(context.Background(), "x@example.com", recicla.StatusChangedEmail{
		ComplaintID: "c-2",
		Status:      recicla.ComplaintStatusAnalyzing,
	})
	assert.ErrorContains(t, err, "failed to send status email")
}

func TestBuildStatusChangedEmail_WithoutNotes(t *testing.T) {
	email := buildStatusChangedEmail(testConfig, "x@example.com", recicla.StatusChangedEmail{
		ComplaintID: "c-3",
		Status:      recicla.ComplaintStatusAnalyzing,
	})

	assert.Equal(t, "Your complaint is now under analysis", email.Subject)
	assert.Contains(t, email.TextBody, "Hello citizen")
	assert.NotContains(t, email.TextBody, "Notes from the city team")
}
