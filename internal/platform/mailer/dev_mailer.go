package mailer

import (
	"github.com/campustix/campustix/pkg/logger"
)

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendVerificationEmail(toEmail, toName, code string) error {
	logger.Info("[DEV MAIL] verification email",
		"to", toEmail,
		"name", toName,
		"code", code,
	)
	return nil
}

func (d *DevMailer) SendTicketEmail(toEmail, toName, eventTitle string, qrPNG []byte) error {
	logger.Info("[DEV MAIL] ticket email",
		"to", toEmail,
		"name", toName,
		"event", eventTitle,
		"qr_png_bytes", len(qrPNG),
	)
	return nil
}

func (d *DevMailer) SendEntryConfirmedEmail(toEmail, toName, eventTitle string) error {
	logger.Info("[DEV MAIL] entry confirmed email",
		"to", toEmail,
		"name", toName,
		"event", eventTitle,
	)
	return nil
}
