package mail

import (
	"bytes"
	"html/template"

	"github.com/pkg/errors"
)

type Brand struct {
	Title   string
	Tagline string
	Footer  []string
}

var DefaultBrand = Brand{
	Title:   "MEDHA Command Center",
	Tagline: "MEDHA 2026 — Event Communication",
	Footer: []string{
		"This email was sent from MEDHA Command Center.",
		"Kongunadu College of Engineering & Technology, Thottiyam, Trichy.",
	},
}

const layout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #2563eb, #1d4ed8); padding: 24px; border-radius: 12px 12px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 20px;">{{.Brand.Title}}</h1>
    <p style="color: #93c5fd; margin: 4px 0 0; font-size: 13px;">{{.Brand.Tagline}}</p>
  </div>
  <div style="padding: 24px; background: #ffffff; border: 1px solid #e2e8f0; border-top: none; border-radius: 0 0 12px 12px;">
    <h2 style="color: #1e293b; margin-top: 0;">{{.Subject}}</h2>
    <div style="color: #475569; line-height: 1.6; white-space: pre-wrap;">{{.Body}}</div>
    <hr style="border: none; border-top: 1px solid #e2e8f0; margin: 24px 0;">
    <p style="color: #94a3b8; font-size: 12px; margin: 0;">
      {{range $i, $line := .Brand.Footer}}{{if $i}}<br>{{end}}{{$line}}{{end}}
    </p>
  </div>
</div>
`

// Template wraps a subject and plain-text body in the branded HTML layout.
// Caller text is escaped.
type Template struct {
	brand Brand
	tmpl  *template.Template
}

func NewTemplate(brand Brand) *Template {
	return &Template{
		brand: brand,
		tmpl:  template.Must(template.New("email").Parse(layout)),
	}
}

func (t *Template) Render(subject, body string) (string, error) {
	var buf bytes.Buffer
	err := t.tmpl.Execute(&buf, struct {
		Brand   Brand
		Subject string
		Body    string
	}{Brand: t.brand, Subject: subject, Body: body})
	if err != nil {
		return "", errors.Wrap(err, "render email template")
	}
	return buf.String(), nil
}
