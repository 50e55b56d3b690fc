package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/service"
	"github.com/campustix/campustix/pkg/auth"
	"github.com/campustix/campustix/pkg/events"
)

func testSigner() *auth.Signer {
	return auth.NewSigner("session-secret", "ticket-secret", time.Hour, time.Hour)
}

type paymentFixture struct {
	svc      service.PaymentService
	payments *mockPaymentRepo
	regs     *mockRegistrationRepo
	eventsR  *mockEventRepo
	users    *mockUserRepo
	gw       *mockGateway
	bus      *mockPublisher
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		payments: newMockPaymentRepo(),
		regs:     newMockRegistrationRepo(),
		eventsR:  newMockEventRepo(),
		users:    newMockUserRepo(),
		gw:       newMockGateway(),
		bus:      &mockPublisher{},
	}
	f.svc = service.NewPaymentService(f.payments, f.regs, f.eventsR, f.users, f.gw, testSigner(), f.bus)
	return f
}

func (f *paymentFixture) seedEvent(deadline time.Time) *domain.Event {
	return f.eventsR.add(&domain.Event{
		Title:       "Tech Fest",
		Date:        deadline.Add(24 * time.Hour),
		Venue:       "Main Auditorium",
		Price:       250,
		Deadline:    deadline,
		Status:      domain.EventActive,
		OrganizerID: 99,
	})
}

func (f *paymentFixture) seedStudent() *domain.User {
	return f.users.add(&domain.User{
		Role:       domain.RoleStudent,
		Name:       "Asha Rao",
		Email:      "asha@college.edu",
		RollNo:     "21CS042",
		Phone:      "9876543210",
		IsVerified: true,
	})
}

func TestCreateOrder(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()

	order, err := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.Success {
		t.Error("expected success=true")
	}
	if order.OrderID == "" {
		t.Error("expected a gateway order id")
	}
	if order.Amount != event.Price {
		t.Errorf("amount = %d, want %d", order.Amount, event.Price)
	}
	if order.GatewayKey != "rzp_test_key" {
		t.Errorf("gateway key = %q", order.GatewayKey)
	}

	p, _ := f.payments.GetByID(context.Background(), order.PaymentID)
	if p == nil || p.Status != domain.PaymentCreated {
		t.Fatalf("payment not recorded in status created: %+v", p)
	}
}

func TestCreateOrderAfterDeadline(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(-time.Minute))
	student := f.seedStudent()

	_, err := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	if !errors.Is(err, domain.ErrRegistrationClosed) {
		t.Fatalf("err = %v, want ErrRegistrationClosed", err)
	}
	if len(f.gw.orders) != 0 {
		t.Error("gateway order must not be created after the deadline")
	}
}

func TestCreateOrderAlreadyPaid(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()
	f.regs.add(&domain.Registration{
		UserID:  student.ID,
		EventID: event.ID,
		Status:  domain.RegistrationPaid,
	})

	_, err := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
}

func TestCreateOrderUnknownEvent(t *testing.T) {
	f := newPaymentFixture()
	student := f.seedStudent()

	_, err := f.svc.CreateOrder(context.Background(), student.ID, 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVerifyPayment(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()

	order, err := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	f.gw.allow(order.OrderID, "pay_abc", "goodsig")

	req := &domain.VerifyPaymentRequest{
		OrderID:          order.OrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        "goodsig",
		PaymentID:        order.PaymentID,
	}
	if err := f.svc.VerifyPayment(context.Background(), req); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	p, _ := f.payments.GetByID(context.Background(), order.PaymentID)
	if p.Status != domain.PaymentPaid {
		t.Errorf("payment status = %s, want paid", p.Status)
	}

	status, found, _ := f.regs.StatusFor(context.Background(), student.ID, event.ID)
	if !found || status != domain.RegistrationPaid {
		t.Fatalf("registration status = %s found=%v, want paid", status, found)
	}

	// The credential must be persisted before the delivery handoff.
	var reg *domain.Registration
	for _, r := range f.regs.regs {
		reg = r
	}
	if reg.QRToken == "" {
		t.Error("expected a stored entry credential")
	}
	if got := f.bus.subjects(); len(got) != 1 || got[0] != events.TicketIssued {
		t.Errorf("published subjects = %v, want [%s]", got, events.TicketIssued)
	}
}

func TestVerifyPaymentIdempotent(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()

	order, _ := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	f.gw.allow(order.OrderID, "pay_abc", "goodsig")
	req := &domain.VerifyPaymentRequest{
		OrderID:          order.OrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        "goodsig",
		PaymentID:        order.PaymentID,
	}

	for i := 0; i < 3; i++ {
		if err := f.svc.VerifyPayment(context.Background(), req); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}

	if got := f.bus.subjects(); len(got) != 1 {
		t.Errorf("ticket issued %d times, want exactly once", len(got))
	}
}

func TestVerifyPaymentBadSignature(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()

	order, _ := f.svc.CreateOrder(context.Background(), student.ID, event.ID)

	req := &domain.VerifyPaymentRequest{
		OrderID:          order.OrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        "forged",
		PaymentID:        order.PaymentID,
	}
	err := f.svc.VerifyPayment(context.Background(), req)
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	// Nothing may change on a failed signature check.
	p, _ := f.payments.GetByID(context.Background(), order.PaymentID)
	if p.Status != domain.PaymentCreated {
		t.Errorf("payment status = %s, want created", p.Status)
	}
	if _, found, _ := f.regs.StatusFor(context.Background(), student.ID, event.ID); found {
		t.Error("no registration may be created on a failed signature check")
	}
	if len(f.bus.subjects()) != 0 {
		t.Error("no event may be published on a failed signature check")
	}
}

func TestVerifyPaymentConcurrent(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()

	order, _ := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	f.gw.allow(order.OrderID, "pay_abc", "goodsig")
	req := &domain.VerifyPaymentRequest{
		OrderID:          order.OrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        "goodsig",
		PaymentID:        order.PaymentID,
	}

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.VerifyPayment(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d: %v", i, err)
		}
	}
	p, _ := f.payments.GetByID(context.Background(), order.PaymentID)
	if p.Status != domain.PaymentPaid {
		t.Errorf("payment status = %s, want paid", p.Status)
	}
	if got := f.bus.subjects(); len(got) != 1 {
		t.Errorf("ticket issued %d times under contention, want exactly once", len(got))
	}
}

func TestVerifyPaymentPromotesRegisteredRow(t *testing.T) {
	f := newPaymentFixture()
	event := f.seedEvent(time.Now().Add(time.Hour))
	student := f.seedStudent()
	existing := f.regs.add(&domain.Registration{
		UserID:  student.ID,
		EventID: event.ID,
		Status:  domain.RegistrationRegistered,
	})

	order, _ := f.svc.CreateOrder(context.Background(), student.ID, event.ID)
	f.gw.allow(order.OrderID, "pay_abc", "goodsig")
	req := &domain.VerifyPaymentRequest{
		OrderID:          order.OrderID,
		GatewayPaymentID: "pay_abc",
		Signature:        "goodsig",
		PaymentID:        order.PaymentID,
	}
	if err := f.svc.VerifyPayment(context.Background(), req); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}

	got, _ := f.regs.GetByID(context.Background(), existing.ID)
	if got.Status != domain.RegistrationPaid {
		t.Errorf("status = %s, want paid (promoted, not duplicated)", got.Status)
	}
	if len(f.regs.regs) != 1 {
		t.Errorf("registration rows = %d, want 1", len(f.regs.regs))
	}
}
