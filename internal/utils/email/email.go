package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Dan9191/hypo-service/internal/config"
	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/models"
	"github.com/Dan9191/hypo-service/internal/utils"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const defaultTopic = "Obecný dotaz"

// Sender handles sending lead notification emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// SendLead notifies the owner about a new lead
func (s *Sender) SendLead(ctx context.Context, lead *models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e, err := BuildLeadEmail(s.cfg.SenderEmail, s.cfg.OwnerEmail, lead)
	if err != nil {
		return err
	}

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send lead %s to %s: %v", lead.ID, s.cfg.OwnerEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithField("lead_id", lead.ID.String()).Infof("Email sent to %s: %s", s.cfg.OwnerEmail, e.Subject)
	return nil
}

// BuildLeadEmail renders the notification for a lead
func BuildLeadEmail(from, to string, lead *models.Lead) (*email.Email, error) {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	e.Subject = Subject(lead)
	if lead.Contact.Email != "" {
		e.ReplyTo = []string{lead.Contact.Email}
	}

	var buf bytes.Buffer
	if err := leadTemplate.Execute(&buf, lead); err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}
	e.HTML = buf.Bytes()
	return e, nil
}

// Subject returns the email subject for a lead
func Subject(lead *models.Lead) string {
	if lead.Type == models.LeadMortgage {
		where := "Klasická kalkulačka"
		if c := lead.Calculation; c != nil && !c.IsClassic() {
			where = c.Location
		}
		return fmt.Sprintf("Hypo Poptávka: %s (%s)", lead.Contact.Name, where)
	}
	topic := lead.Topic
	if topic == "" {
		topic = defaultTopic
	}
	return fmt.Sprintf("Poptávka Pojištění: %s (%s)", lead.Contact.Name, topic)
}

func categoryLabel(s string) string {
	c, err := market.ParseCategory(s)
	if err != nil {
		return s
	}
	return c.Label()
}

var leadTemplate = template.Must(template.New("lead").Funcs(template.FuncMap{
	"czk":      utils.FormatCZK,
	"thousand": utils.FormatThousand,
	"category": categoryLabel,
	"possible": func(b *bool) bool { return b != nil && *b },
	"positive": func(n *int) bool { return n != nil && *n > 0 },
	"topic": func(s string) string {
		if s == "" {
			return defaultTopic
		}
		return s
	},
}).Parse(leadHTML))

const leadHTML = `<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
{{- if eq .Type "mortgage"}}
  <h2 style="color: #059669;">Nová Hypo Poptávka</h2>
{{- else}}
  <h2 style="color: #0284c7;">Nová Poptávka Pojištění</h2>
{{- end}}
  <div style="background: #f1f5f9; padding: 20px; border-radius: 12px; margin-bottom: 20px;">
    <h3 style="margin-top: 0;">Kontaktní údaje</h3>
    <p><strong>Jméno:</strong> {{.Contact.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Contact.Email}}">{{.Contact.Email}}</a></p>
    <p><strong>Telefon:</strong> {{if .Contact.Phone}}<a href="tel:{{.Contact.Phone}}">{{.Contact.Phone}}</a>{{else}}Neuveden{{end}}</p>
{{- if eq .Type "mortgage"}}
    <p><strong>Chci nabídky nemovitostí:</strong> {{if .Contact.WantAgentOffers}}ANO{{else}}NE{{end}}</p>
{{- end}}
  </div>
{{- if eq .Type "mortgage"}}
  <div style="border: 1px solid #e2e8f0; padding: 20px; border-radius: 12px;">
    <h3 style="margin-top: 0;">Parametry Hypotéky</h3>
  {{- with .Calculation}}
    <ul style="line-height: 1.6;">
    {{- if .IsClassic}}
      <li><strong>Požadovaný úvěr:</strong> {{czk .DesiredLoan}}</li>
    {{- else}}
      <li><strong>Lokalita:</strong> {{.Location}}{{if .Region}} ({{.Region}}){{end}}</li>
      <li><strong>Nemovitost:</strong> {{category .PropertyType}}</li>
      <li><strong>Plocha:</strong> {{thousand .AreaSize}} m²</li>
    {{- end}}
      <li><strong>Příjem:</strong> {{czk .Income}}</li>
      <li><strong>Hotovost:</strong> {{czk .Cash}}</li>
    {{- if .IsPossible}}
      <li><strong>Splatitelné:</strong> {{if possible .IsPossible}}ANO{{else}}NE{{end}}</li>
    {{- end}}
    </ul>
  {{- else}}
    <p>Bez kalkulace</p>
  {{- end}}
  {{- with .Result}}
    <h3 style="margin-top: 20px; color: {{if .IsSuccess}}#059669{{else}}#d97706{{end}};">
      Výsledek kalkulace: {{if .IsSuccess}}SCHVÁLENO{{else}}ZAMÍTNUTO / K ŘEŠENÍ{{end}}
    </h3>
    <p><strong>Max Hypotéka:</strong> {{czk .MaxLoan}}</p>
    {{- if not .IsSuccess}}
    <p><strong>Důvod:</strong> {{if .FailReason}}{{.FailReason}}{{else}}Neurčeno{{end}}</p>
    {{- end}}
    {{- if positive .MaxAffordableM2}}
    <p><strong>Max dostupná plocha:</strong> {{.MaxAffordableM2}} m²</p>
    {{- end}}
  {{- end}}
  </div>
{{- else}}
  <div style="border: 1px solid #e2e8f0; padding: 20px; border-radius: 12px;">
    <h3 style="margin-top: 0;">Detaily Poptávky</h3>
    <p style="font-size: 18px;"><strong>Téma:</strong> {{topic .Topic}}</p>
  {{- if .Note}}
    <div style="margin-top: 10px; padding: 10px; background: #fffbeb; border-radius: 8px;"><strong>Poznámka:</strong><br/>{{.Note}}</div>
  {{- end}}
  </div>
{{- end}}
  <p style="color: #94a3b8; font-size: 12px; margin-top: 30px; text-align: center;">
    Odesláno z aplikace Hypo Valašsko · {{.ID}}
  </p>
</div>
`
