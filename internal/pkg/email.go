package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func NewMessage(cfg SMTPConfig, to, subject, htmlBody string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return m
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return d.DialAndSend(NewMessage(cfg, to, subject, htmlBody))
}

func MemberJoinedHTML(clubName, username string) string {
	return fmt.Sprintf(`<p>Hello,</p><p><b>%s</b> just joined <b>%s</b>.</p>`,
		html.EscapeString(username), html.EscapeString(clubName))
}
