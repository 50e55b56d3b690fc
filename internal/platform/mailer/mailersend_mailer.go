package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendVerificationEmail(toEmail, toName, code string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Verify your CampusTix account"
	html := fmt.Sprintf(`
		<h2>Welcome to CampusTix!</h2>
		<p>Hi %s,</p>
		<p>Your verification code is: <strong style="font-size: 24px;">%s</strong></p>
		<p>The code expires in 15 minutes and can be used once.</p>
		<p>If you didn't create an account, please ignore this email.</p>
	`, toName, code)
	text := fmt.Sprintf("Your CampusTix verification code is: %s\n\nIt expires in 15 minutes.", code)

	return m.sendEmail(toEmail, toName, subject, text, html, nil)
}

func (m *MailerSendClient) SendTicketEmail(toEmail, toName, eventTitle string, qrPNG []byte) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your event ticket"
	html := fmt.Sprintf(`
		<h2>Payment successful</h2>
		<p>Hello %s,</p>
		<p>Your ticket for <b>%s</b> is attached as a QR code.</p>
		<p><b>Do not share it. One-time entry only.</b></p>
	`, toName, eventTitle)
	text := fmt.Sprintf("Hello %s, your ticket for %s is attached. Do not share it; one-time entry only.", toName, eventTitle)

	var attachments []mailersend.Attachment
	if len(qrPNG) > 0 {
		attachments = append(attachments, mailersend.Attachment{
			Filename: "event-ticket.png",
			Content:  base64.StdEncoding.EncodeToString(qrPNG),
		})
	}

	return m.sendEmail(toEmail, toName, subject, text, html, attachments)
}

func (m *MailerSendClient) SendEntryConfirmedEmail(toEmail, toName, eventTitle string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Entry confirmed"
	html := fmt.Sprintf(`
		<h3>Welcome %s</h3>
		<p>Your entry for <b>%s</b> is confirmed.</p>
	`, toName, eventTitle)
	text := fmt.Sprintf("Welcome %s, your entry for %s is confirmed.", toName, eventTitle)

	return m.sendEmail(toEmail, toName, subject, text, html, nil)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string, attachments []mailersend.Attachment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	msg.SetText(text)
	msg.SetHTML(html)

	for _, a := range attachments {
		msg.AddAttachment(a)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
