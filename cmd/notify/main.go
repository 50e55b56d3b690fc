package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campustix/campustix/internal/platform/mailer"
	"github.com/campustix/campustix/internal/platform/ticket"
	"github.com/campustix/campustix/pkg/config"
	"github.com/campustix/campustix/pkg/events"
	"github.com/campustix/campustix/pkg/logger"
)

const workerQueue = "notify-workers"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	emailSvc := newMailer(cfg)
	w := &worker{mailer: emailSvc}

	subs := map[string]func(*events.Message){
		events.TicketIssued:          w.handleTicketIssued,
		events.EntryConfirmed:        w.handleEntryConfirmed,
		events.VerificationRequested: w.handleVerificationRequested,
	}
	for subject, handler := range subs {
		if err := eventBus.QueueSubscribe(subject, workerQueue, handler); err != nil {
			logger.Error("Failed to subscribe", "subject", subject, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Notify worker started", "queue", workerQueue)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down notify worker...")
}

func newMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Using dev mailer, emails will be logged only")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}

type worker struct {
	mailer mailer.Service
}

func (w *worker) handleTicketIssued(msg *events.Message) {
	var evt events.TicketIssuedEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Error("Failed to decode ticket issued event", "error", err)
		return
	}

	png, err := ticket.RenderQR(evt.QRToken)
	if err != nil {
		logger.Error("Failed to render QR", "error", err, "registration_id", evt.RegistrationID)
		return
	}

	if err := w.mailer.SendTicketEmail(evt.UserEmail, evt.UserName, evt.EventTitle, png); err != nil {
		logger.Error("Failed to send ticket email",
			"error", err, "registration_id", evt.RegistrationID, "email", evt.UserEmail)
		return
	}
	logger.Info("Ticket email sent", "registration_id", evt.RegistrationID, "email", evt.UserEmail)
}

func (w *worker) handleEntryConfirmed(msg *events.Message) {
	var evt events.EntryConfirmedEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Error("Failed to decode entry confirmed event", "error", err)
		return
	}

	if err := w.mailer.SendEntryConfirmedEmail(evt.UserEmail, evt.UserName, evt.EventTitle); err != nil {
		logger.Error("Failed to send entry confirmation email",
			"error", err, "registration_id", evt.RegistrationID)
		return
	}
	logger.Info("Entry confirmation sent", "registration_id", evt.RegistrationID)
}

func (w *worker) handleVerificationRequested(msg *events.Message) {
	var evt events.VerificationRequestedEvent
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		logger.Error("Failed to decode verification requested event", "error", err)
		return
	}

	if err := w.mailer.SendVerificationEmail(evt.Email, evt.Name, evt.Code); err != nil {
		logger.Error("Failed to send verification email", "error", err, "email", evt.Email)
		return
	}
	logger.Info("Verification email sent", "email", evt.Email)
}
