package email

import (
	"net/smtp"
	"testing"
	"time"

	"go-advisory-contact/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       "587",
		SMTPUsername:   "user",
		SMTPPassword:   "secret",
		SMTPFromEmail:  "noreply@example.com",
		ContactEmailTo: "advisors@example.com",
	}
}

func sampleData() ContactEmailData {
	return ContactEmailData{
		SubmissionID: "abc",
		SenderName:   "Ada Lovelace",
		SenderEmail:  "ada@example.com",
		Service:      "Tax Planning",
		Message:      "<script>alert(1)</script> please call",
		SubmittedAt:  time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	}
}

func TestIsConfigured(t *testing.T) {
	assert.True(t, NewEmailService(testConfig()).IsConfigured())
	assert.False(t, NewEmailService(&config.Config{}).IsConfigured())
}

func TestBuildContactMessage_EscapesMessage(t *testing.T) {
	msg, err := NewEmailService(testConfig()).BuildContactMessage(sampleData())
	require.NoError(t, err)

	body := string(msg)
	assert.Contains(t, body, "Subject: Contact Form: Tax Planning - Ada Lovelace")
	assert.Contains(t, body, "Reply-To: ada@example.com")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestSendContactEmail(t *testing.T) {
	svc := NewEmailService(testConfig())
	var gotAddr string
	var gotTo []string
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo = addr, to
		return nil
	}

	require.NoError(t, svc.SendContactEmail(sampleData()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"advisors@example.com"}, gotTo)
}
