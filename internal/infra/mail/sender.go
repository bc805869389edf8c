package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-voiceagent/internal/infra/queue"
)

const notificationTemplate = `Novo lead capturado pelo agente de voz:

Nome:     {{.Nome}}
Email:    {{.Email}}
Telefone: {{.Telefone}}
Empresa:  {{.Empresa}}
Cadastro: {{.CreatedAt}}

ID interno: {{.LeadID}}
`

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string // destino das notificações (time comercial)
}

func NewEmailSender(host string, port int, user, password, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		To:       to,
	}
}

// SendLeadNotification avisa o time comercial que um lead novo chegou.
func (s *EmailSender) SendLeadNotification(payload queue.LeadCapturedPayload) error {
	t, err := template.New("lead-notification").Parse(notificationTemplate)
	if err != nil {
		return fmt.Errorf("erro ao preparar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, payload); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@liguemedicina.com")
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s (%s)", payload.Nome, payload.Empresa))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
