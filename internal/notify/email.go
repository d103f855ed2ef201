package notify

import (
	"bytes"
	"embed"
	"errors"
	"html/template"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrNoTemplate is returned for statuses that do not notify the tutor.
var ErrNoTemplate = errors.New("no email template for status")

// Email is the unit of work carried by the outbound queue.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type decision struct {
	subject  string
	template string
	path     string
}

var decisions = map[models.ProfileStatus]decision{
	models.StatusApproved: {"Your Tutor Profile Has Been Approved 🎉", "tutor_approved.html", "/dashboard"},
	models.StatusRejected: {"Your Tutor Profile Application Status", "tutor_rejected.html", "/support"},
}

// RenderTutorDecision builds the email sent after an admin decision.
func RenderTutorDecision(status models.ProfileStatus, to, name, frontendURL string) (Email, error) {
	d, ok := decisions[status]
	if !ok {
		return Email{}, ErrNoTemplate
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, d.template, map[string]string{
		"Name": name,
		"Link": frontendURL + d.path,
	}); err != nil {
		return Email{}, err
	}

	return Email{To: to, Subject: d.subject, HTML: buf.String()}, nil
}
