package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/campustix/campustix/internal/domain"
	"github.com/campustix/campustix/internal/platform/gateway"
)

// ---------- Mocks ----------

type mockEventRepo struct {
	mu     sync.Mutex
	events map[int64]*domain.Event
	nextID int64
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*domain.Event), nextID: 1}
}

func (m *mockEventRepo) add(e *domain.Event) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = m.nextID
		m.nextID++
	}
	cp := *e
	m.events[e.ID] = &cp
	return e
}

func (m *mockEventRepo) Create(_ context.Context, organizerID int64, req *domain.EventRequest) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &domain.Event{
		ID:          m.nextID,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Venue:       req.Venue,
		Price:       req.Price,
		Deadline:    req.Deadline,
		Status:      domain.EventActive,
		OrganizerID: organizerID,
	}
	m.nextID++
	m.events[e.ID] = e
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) ListActive(context.Context, int, int) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.Status == domain.EventActive {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) ListByOrganizer(_ context.Context, organizerID int64) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Update(_ context.Context, id int64, patch domain.EventPatch) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Price != nil {
		e.Price = *patch.Price
	}
	if patch.Deadline != nil {
		e.Deadline = *patch.Deadline
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) Archive(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok || e.Status != domain.EventActive {
		return false, nil
	}
	e.Status = domain.EventArchived
	return true, nil
}

func (m *mockEventRepo) DashboardSummary(context.Context, int64) ([]domain.EventSummary, error) {
	return nil, nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockUserRepo) add(u *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	cp := *u
	m.users[u.ID] = &cp
	return u
}

func (m *mockUserRepo) Create(_ context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{
		ID:           m.nextID,
		Role:         req.Role,
		Name:         req.Name,
		Email:        req.Email,
		RollNo:       req.RollNo,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		ClubName:     req.ClubName,
	}
	if u.Role == domain.RoleOrganizer {
		u.ApprovalStatus = domain.ApprovalPending
	}
	m.nextID++
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByRollNo(_ context.Context, rollNo string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.RollNo == rollNo {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) MarkVerified(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.IsVerified = true
	}
	return nil
}

type mockPaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*domain.Payment
	nextID   int64
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[int64]*domain.Payment), nextID: 1}
}

func (m *mockPaymentRepo) add(p *domain.Payment) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.nextID
		m.nextID++
	}
	cp := *p
	m.payments[p.ID] = &cp
	return p
}

func (m *mockPaymentRepo) Create(_ context.Context, userID, eventID, organizerID, amount int64, gatewayOrderID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &domain.Payment{
		ID:             m.nextID,
		UserID:         userID,
		EventID:        eventID,
		OrganizerID:    organizerID,
		Amount:         amount,
		GatewayOrderID: gatewayOrderID,
		Status:         domain.PaymentCreated,
	}
	m.nextID++
	m.payments[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id int64) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// MarkPaid mirrors the conditional UPDATE: the transition only happens when
// the row is still in status created.
func (m *mockPaymentRepo) MarkPaid(_ context.Context, id int64, gatewayPaymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != domain.PaymentCreated {
		return false, nil
	}
	p.Status = domain.PaymentPaid
	p.GatewayPaymentID = &gatewayPaymentID
	return true, nil
}

func (m *mockPaymentRepo) MarkFailed(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok || p.Status != domain.PaymentCreated {
		return false, nil
	}
	p.Status = domain.PaymentFailed
	return true, nil
}

type regKey struct{ userID, eventID int64 }

type mockRegistrationRepo struct {
	mu     sync.Mutex
	regs   map[int64]*domain.Registration
	byPair map[regKey]int64
	nextID int64
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{
		regs:   make(map[int64]*domain.Registration),
		byPair: make(map[regKey]int64),
		nextID: 1,
	}
}

func (m *mockRegistrationRepo) add(r *domain.Registration) *domain.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.nextID
		m.nextID++
	}
	cp := *r
	m.regs[r.ID] = &cp
	m.byPair[regKey{r.UserID, r.EventID}] = r.ID
	return r
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id int64) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regs[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockRegistrationRepo) HasPaid(_ context.Context, userID, eventID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPair[regKey{userID, eventID}]
	if !ok {
		return false, nil
	}
	s := m.regs[id].Status
	return s == domain.RegistrationPaid || s == domain.RegistrationCheckedIn, nil
}

func (m *mockRegistrationRepo) StatusFor(_ context.Context, userID, eventID int64) (domain.RegistrationStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byPair[regKey{userID, eventID}]
	if !ok {
		return "", false, nil
	}
	return m.regs[id].Status, true, nil
}

// UpsertPaid mirrors the ON CONFLICT upsert: a registered row is promoted,
// a paid or checked_in row comes back unchanged, a missing row is created.
func (m *mockRegistrationRepo) UpsertPaid(_ context.Context, userID, eventID, paymentID int64) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := regKey{userID, eventID}
	if id, ok := m.byPair[key]; ok {
		r := m.regs[id]
		if r.Status == domain.RegistrationRegistered {
			r.Status = domain.RegistrationPaid
			r.PaymentID = &paymentID
		}
		cp := *r
		return &cp, nil
	}
	r := &domain.Registration{
		ID:        m.nextID,
		UserID:    userID,
		EventID:   eventID,
		PaymentID: &paymentID,
		Status:    domain.RegistrationPaid,
	}
	m.nextID++
	m.regs[r.ID] = r
	m.byPair[key] = r.ID
	cp := *r
	return &cp, nil
}

func (m *mockRegistrationRepo) SetTicketToken(_ context.Context, id int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.regs[id]; ok {
		r.QRToken = token
	}
	return nil
}

// Redeem mirrors the conditional UPDATE: exactly one caller can move a paid
// row to checked_in.
func (m *mockRegistrationRepo) Redeem(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regs[id]
	if !ok || r.Status != domain.RegistrationPaid {
		return false, nil
	}
	now := time.Now()
	r.Status = domain.RegistrationCheckedIn
	r.CheckedInAt = &now
	return true, nil
}

func (m *mockRegistrationRepo) ListByUser(context.Context, int64) ([]domain.RegistrationDetail, error) {
	return nil, nil
}

func (m *mockRegistrationRepo) ListByEvent(context.Context, int64) ([]domain.RegistrationDetail, error) {
	return nil, nil
}

type mockGateway struct {
	orders     []string
	orderErr   error
	signatures map[string]bool // "orderID|paymentID|sig" -> valid
}

func newMockGateway() *mockGateway {
	return &mockGateway{signatures: make(map[string]bool)}
}

func (m *mockGateway) allow(orderID, paymentID, sig string) {
	m.signatures[orderID+"|"+paymentID+"|"+sig] = true
}

func (m *mockGateway) CreateOrder(_ context.Context, amountPaise int64, receipt string) (*gateway.Order, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	id := "order_test_1"
	m.orders = append(m.orders, id)
	return &gateway.Order{ID: id, Amount: amountPaise, Currency: "INR", Receipt: receipt}, nil
}

func (m *mockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return m.signatures[orderID+"|"+paymentID+"|"+signature]
}

func (m *mockGateway) KeyID() string { return "rzp_test_key" }

type mockPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.published...)
}
