package mailer

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

func (s *SMTPMailer) SendVerificationEmail(toEmail, toName, code string) error {
	subject := "Verify your CampusTix account"
	text := fmt.Sprintf("Hi %s,\n\nYour CampusTix verification code is: %s\n\nIt expires in 15 minutes and can be used once.", toName, code)
	html := fmt.Sprintf(`
		<h2>Welcome to CampusTix!</h2>
		<p>Hi %s,</p>
		<p>Your verification code is: <strong style="font-size: 24px;">%s</strong></p>
		<p>The code expires in 15 minutes and can be used once.</p>
	`, toName, code)

	return s.sendEmail(toEmail, subject, text, html, nil)
}

func (s *SMTPMailer) SendTicketEmail(toEmail, toName, eventTitle string, qrPNG []byte) error {
	subject := "Your event ticket"
	text := fmt.Sprintf("Hello %s, your ticket for %s is attached. Do not share it; one-time entry only.", toName, eventTitle)
	html := fmt.Sprintf(`
		<h2>Payment successful</h2>
		<p>Hello %s,</p>
		<p>Your ticket for <b>%s</b> is attached as a QR code.</p>
		<p><b>Do not share it. One-time entry only.</b></p>
	`, toName, eventTitle)

	return s.sendEmail(toEmail, subject, text, html, qrPNG)
}

func (s *SMTPMailer) SendEntryConfirmedEmail(toEmail, toName, eventTitle string) error {
	subject := "Entry confirmed"
	text := fmt.Sprintf("Welcome %s, your entry for %s is confirmed.", toName, eventTitle)
	html := fmt.Sprintf(`
		<h3>Welcome %s</h3>
		<p>Your entry for <b>%s</b> is confirmed.</p>
	`, toName, eventTitle)

	return s.sendEmail(toEmail, subject, text, html, nil)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string, attachment []byte) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	mixed := "mixed-boundary"
	alt := "alt-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed)

	fmt.Fprintf(&buf, "--%s\r\n", mixed)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt)

	fmt.Fprintf(&buf, "--%s\r\n", alt)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", alt)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)
	fmt.Fprintf(&buf, "--%s--\r\n", alt)

	if len(attachment) > 0 {
		fmt.Fprintf(&buf, "--%s\r\n", mixed)
		fmt.Fprintf(&buf, "Content-Type: image/png\r\n")
		fmt.Fprintf(&buf, "Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=\"event-ticket.png\"\r\n\r\n")

		encoded := base64.StdEncoding.EncodeToString(attachment)
		for len(encoded) > 76 {
			fmt.Fprintf(&buf, "%s\r\n", encoded[:76])
			encoded = encoded[76:]
		}
		fmt.Fprintf(&buf, "%s\r\n", encoded)
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mixed)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit or development SMTP (no auth, no TLS)
	if !s.UseTLS && s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	// Plain SMTP first, with STARTTLS if the server offers it
	if err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes()); err == nil {
		return nil
	}

	// Fallback to implicit TLS (port 465)
	if s.UseTLS {
		tlsCfg := &tls.Config{ServerName: s.Host}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if s.User != "" {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}

		if err := c.Mail(s.From); err != nil {
			return err
		}
		if err := c.Rcpt(toEmail); err != nil {
			return err
		}

		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		return w.Close()
	}

	return fmt.Errorf("smtp send failed")
}
