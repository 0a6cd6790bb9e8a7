package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSMTPMailerRequiresHostWhenEnabled(t *testing.T) {
	_, err := NewSMTPMailer(SMTPSettings{Enabled: true, Port: 587})
	require.Error(t, err)

	_, err = NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com"})
	require.Error(t, err)

	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: true, Host: "smtp.example.com", Port: 587})
	require.NoError(t, err)
	require.NotNil(t, mailer)
}

func TestSendDisabledReturnsSentinel(t *testing.T) {
	mailer, err := NewSMTPMailer(SMTPSettings{Enabled: false})
	require.NoError(t, err)

	err = mailer.Send(context.Background(), Message{To: []string{"user@example.com"}, Subject: "hi"})
	require.ErrorIs(t, err, ErrSMTPDisabled)
}

func TestSendValidatesRecipients(t *testing.T) {
	m := &smtpMailer{cfg: SMTPSettings{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    587,
		From:    "noreply@example.com",
		Timeout: time.Second,
	}}

	err := m.Send(context.Background(), Message{Subject: "hi"})
	require.Error(t, err)

	err = m.Send(context.Background(), Message{To: []string{"not-an-address"}, Subject: "hi"})
	require.Error(t, err)
}

func TestUniqueAddresses(t *testing.T) {
	addrs := uniqueAddresses([]string{" a@example.com ", "a@example.com", "", "b@example.com"})
	require.Equal(t, []string{"a@example.com", "b@example.com"}, addrs)
}

func TestFormatMessageEscapesHeaders(t *testing.T) {
	out := formatMessage("noreply@example.com", []string{"a@example.com"}, "line\r\nbreak", "body")
	require.Contains(t, out, "Subject: line  break")
	require.Contains(t, out, "Content-Type: text/plain; charset=UTF-8")
	require.Contains(t, out, "\r\n\r\nbody")
}
