// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and renders
// HTML bodies from templates embedded in the binary.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/deppfellow/media-library/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/emails/*.html
var templates embed.FS

// sendFunc delivers a prepared request; it is resend's Emails.Send.
type sendFunc func(*resend.SendEmailRequest) (*resend.SendEmailResponse, error)

// Client wraps the Resend client and a logger.
type Client struct {
	send   sendFunc
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client.
//
// It initializes a Resend client with the API key from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	client := resend.NewClient(cfg.Integration.ResendAPIKey)
	return &Client{
		send:   client.Emails.Send,
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
}

// Render executes the named template with data.
func Render(templateName Template, data map[string]string) (string, error) {
	tmplPath := fmt.Sprintf("templates/emails/%s.html", templateName)

	tmpl, err := template.New(string(templateName) + ".html").
		Option("missingkey=zero").
		Funcs(sprig.FuncMap()).
		ParseFS(templates, tmplPath)
	if err != nil {
		// pkg/errors.Wrapf adds context while preserving stack trace.
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single
// recipient through Resend.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}

	sent, err := c.send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
