package mailer

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "gopkg.in/gomail.v2"

	"github.com/solsticedigital/backoffice/pkg/config"
	pkgerrors "github.com/solsticedigital/backoffice/pkg/errors"
	"github.com/solsticedigital/backoffice/pkg/logger"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m...)
	return nil
}

func testMailer(t *testing.T, sender Sender) *Mailer {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	m, err := New(context.Background(), config.SMTPConfig{}, config.NewsletterConfig{
		FromName:  "Solstice Digital",
		FromEmail: "news@solsticedigital.co",
	}, logg, WithSender(sender))
	require.NoError(t, err)
	return m
}

func TestNewRequiresHostWithoutSenderOverride(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	_, err := New(context.Background(), config.SMTPConfig{}, config.NewsletterConfig{}, logg)
	require.ErrorIs(t, err, errHostRequired)
}

func TestSendSetsFromAndRecipients(t *testing.T) {
	sender := &captureSender{}
	m := testMailer(t, sender)

	err := m.Send(context.Background(), Message{
		To:       []string{"a@example.com", "b@example.com"},
		Subject:  "New vlog: Spring tour",
		HTMLBody: "<p>Watch it now.</p>",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Contains(t, msg.GetHeader("From")[0], "news@solsticedigital.co")
	assert.Len(t, msg.GetHeader("To"), 2)
	assert.Equal(t, "New vlog: Spring tour", msg.GetHeader("Subject")[0])
}

func TestSendRequiresRecipients(t *testing.T) {
	m := testMailer(t, &captureSender{})
	err := m.Send(context.Background(), Message{Subject: "empty"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSendWrapsDialerFailure(t *testing.T) {
	m := testMailer(t, &captureSender{err: errors.New("dial tcp: refused")})
	err := m.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
