// Package templates renders the notification emails the worker sends.
package templates

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

type spec struct {
	subject string
	text    *texttpl.Template
	html    *htmltpl.Template
}

var registry = map[string]spec{
	"welcome": {
		subject: "Welcome to TaskNest",
		text: texttpl.Must(texttpl.New("welcome").Parse(
			"Hi {{.Name}}, your TaskNest account is ready. Log in and create your first task.")),
		html: htmltpl.Must(htmltpl.New("welcome").Parse(
			`<p>Hi {{.Name}},</p><p>Your TaskNest account is ready. Log in and create your first task.</p>`)),
	},
	"password_changed": {
		subject: "Your TaskNest password was changed",
		text: texttpl.Must(texttpl.New("password_changed").Parse(
			"Hi {{.Name}}, the password of your TaskNest account was just changed. If this wasn't you, contact support immediately.")),
		html: htmltpl.Must(htmltpl.New("password_changed").Parse(
			`<p>Hi {{.Name}},</p><p>The password of your TaskNest account was just changed.</p><p>If this wasn't you, contact support immediately.</p>`)),
	},
}

// Render renders the named template and returns subject, text and html bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	s, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var tb bytes.Buffer
	if err := s.text.Execute(&tb, data); err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := s.html.Execute(&hb, data); err != nil {
		return "", "", "", err
	}
	return s.subject, tb.String(), hb.String(), nil
}
