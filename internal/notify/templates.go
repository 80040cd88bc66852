package notify

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
)

type messageTemplate struct {
	subject string
	body    *template.Template
	// path builds the link path from the payload.
	path func(p Payload) string
}

var activationBody = template.Must(template.New("activation").Parse(
	`Hello {{.Username}},

Please confirm your email address to activate your account:

{{.Link}}

If you did not create an account, you can ignore this message.
`))

var passwordResetBody = template.Must(template.New("password_reset").Parse(
	`Hello {{.Username}},

A password reset was requested for your account. Use the link below to choose a new password:

{{.Link}}

If you did not request a reset, your password has not been changed.
`))

var emailChangeBody = template.Must(template.New("email_change").Parse(
	`Hello {{.Username}},

Confirm that you want to use this address for your account:

{{.Link}}

Until you confirm, your account keeps its current email address.
`))

var templates = map[Kind]messageTemplate{
	KindActivation: {
		subject: "Activate your account",
		body:    activationBody,
		path: func(p Payload) string {
			return "/activate/" + url.PathEscape(p.Token)
		},
	},
	KindPasswordReset: {
		subject: "Reset your password",
		body:    passwordResetBody,
		path: func(p Payload) string {
			return "/reset-password/" + url.PathEscape(p.UID) + "/" + url.PathEscape(p.Token)
		},
	},
	KindEmailChange: {
		subject: "Confirm your new email address",
		body:    emailChangeBody,
		path: func(p Payload) string {
			return "/change-email/" + url.PathEscape(p.UID) + "/" + url.PathEscape(p.Token)
		},
	},
}

// Renderer turns a notification into a Message with links rooted at a
// public base URL.
type Renderer struct {
	baseURL string
}

// NewRenderer creates a Renderer. The base URL must be absolute.
func NewRenderer(publicURL string) (*Renderer, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return nil, fmt.Errorf("invalid public url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid public url %q: scheme and host are required", publicURL)
	}
	return &Renderer{baseURL: strings.TrimRight(publicURL, "/")}, nil
}

// Render builds the message for kind.
func (r *Renderer) Render(to string, kind Kind, payload Payload) (Message, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var body bytes.Buffer
	err := tmpl.body.Execute(&body, struct {
		Username string
		Link     string
	}{
		Username: payload.Username,
		Link:     r.baseURL + tmpl.path(payload),
	})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render %s message: %w", kind, err)
	}

	return Message{
		To:      to,
		Kind:    kind,
		Subject: tmpl.subject,
		Body:    body.String(),
	}, nil
}
