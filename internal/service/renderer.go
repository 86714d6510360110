package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RenderedMessage is a formatted notification ready for a transport.
type RenderedMessage struct {
	Subject string
	HTML    string
	Text    string
}

type templateData struct {
	Locale          Locale
	Heading         string
	Homework        models.Homework
	DescriptionHTML template.HTML
	DueDate         string
	Remaining       string
}

// Renderer turns a homework into a notification. It performs no I/O.
type Renderer struct {
	locale   Locale
	location *time.Location
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	html     *template.Template
	text     *texttemplate.Template
}

// NewRenderer parses the embedded templates. A nil location renders dates in UTC.
func NewRenderer(locale Locale, location *time.Location) (*Renderer, error) {
	if location == nil {
		location = time.UTC
	}
	htmlTmpl, err := template.ParseFS(templateFS, "templates/notification.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	textTmpl, err := texttemplate.ParseFS(templateFS, "templates/notification.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	return &Renderer{
		locale:   locale,
		location: location,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		html:   htmlTmpl,
		text:   textTmpl,
	}, nil
}

// Locale returns the locale the renderer was built with.
func (r *Renderer) Locale() Locale {
	return r.locale
}

// Render formats hw for kind. An empty remaining label omits the remaining-time section.
func (r *Renderer) Render(kind models.NotificationKind, hw models.Homework, remaining string) (RenderedMessage, error) {
	description, err := r.describe(hw.Description)
	if err != nil {
		return RenderedMessage{}, err
	}

	data := templateData{
		Locale:          r.locale,
		Homework:        hw,
		DescriptionHTML: description,
		DueDate:         r.locale.FormatDate(hw.DueDate, r.location),
		Remaining:       remaining,
	}

	var subject string
	switch kind {
	case models.NotificationKindNewHomework:
		data.Heading = r.locale.NewHomeworkHeading
		subject = fmt.Sprintf(r.locale.NewHomeworkSubject, hw.Title)
	default:
		data.Heading = r.locale.ReminderHeading
		if remaining == "" {
			subject = fmt.Sprintf(r.locale.ReminderSubjectBare, hw.Title)
		} else {
			subject = fmt.Sprintf(r.locale.ReminderSubject, hw.Title, remaining)
		}
	}

	var htmlBody, textBody bytes.Buffer
	if err := r.html.Execute(&htmlBody, data); err != nil {
		return RenderedMessage{}, fmt.Errorf("render html body: %w", err)
	}
	if err := r.text.Execute(&textBody, data); err != nil {
		return RenderedMessage{}, fmt.Errorf("render text body: %w", err)
	}

	return RenderedMessage{
		Subject: singleLine(subject),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}

// describe converts markdown to HTML and sanitises the result.
func (r *Renderer) describe(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
