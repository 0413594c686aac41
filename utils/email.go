package utils

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// EmailConfigured reports whether SendEmail has enough settings to try.
func EmailConfigured() bool {
	c := GetEmailConfig()
	return c.Host != "" && c.Port != "" && c.From != ""
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		from, to, subject)
	return []byte(headers + htmlBody)
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if !EmailConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, buildMessage(config.From, to, subject, htmlBody))
}

// NewOrderEmail renders the alert sent to an establishment for a new order.
func NewOrderEmail(establishmentName, orderNumber, clientName, total, paymentMethod, notes string) (subject, body string) {
	subject = fmt.Sprintf("Novo pedido %s", orderNumber)
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Novo pedido em %s</h2>\n", html.EscapeString(establishmentName))
	fmt.Fprintf(&b, "<p>Pedido <strong>%s</strong> de %s.</p>\n", html.EscapeString(orderNumber), html.EscapeString(clientName))
	fmt.Fprintf(&b, "<p>Total: <strong>R$ %s</strong><br>Pagamento: %s</p>\n", html.EscapeString(total), html.EscapeString(paymentMethod))
	if notes != "" {
		fmt.Fprintf(&b, "<p>Observação: %s</p>\n", html.EscapeString(notes))
	}
	return subject, b.String()
}

// SendStaffWelcomeEmail tells a new staff user their login.
func SendStaffWelcomeEmail(email, name, establishmentName string) {
	go func() {
		displayName := name
		if displayName == "" {
			displayName = "equipe"
		}
		subject := fmt.Sprintf("Acesso ao painel de %s", establishmentName)
		body := fmt.Sprintf(`<h2>Bem-vindo(a), %s!</h2>
<p>Sua conta para gerenciar os pedidos de <strong>%s</strong> foi criada.</p>
<p>Entre com o e-mail <strong>%s</strong> e a senha informada pelo administrador.</p>`,
			html.EscapeString(strings.Split(displayName, " ")[0]), html.EscapeString(establishmentName), html.EscapeString(email))
		if err := SendEmail(email, subject, body); err != nil {
			log.Printf("Failed to send staff welcome email to %s: %v", email, err)
		}
	}()
}
