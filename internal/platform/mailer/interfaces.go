package mailer

// Service sends the three transactional emails the platform produces. All
// senders are best-effort from the core's point of view: callers log
// failures and move on.
type Service interface {
	SendVerificationEmail(toEmail, toName, code string) error
	// SendTicketEmail attaches the entry QR as a PNG; the token itself never
	// appears in the email body.
	SendTicketEmail(toEmail, toName, eventTitle string, qrPNG []byte) error
	SendEntryConfirmedEmail(toEmail, toName, eventTitle string) error
}
