// Package testutil contiene dobles en memoria de los puertos de persistencia y envío,
// usados por los tests de casos de uso y de handlers.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
)

// ErrFake error genérico inyectable en los fakes.
var ErrFake = errors.New("fake: fallo inyectado")

// Store base de datos en memoria compartida por todos los repositorios fake.
type Store struct {
	mu sync.Mutex

	Companies      map[string]*entity.Company
	NotifyEmails   map[string]*entity.NotificationEmail
	Users          map[string]*entity.User
	Employees      map[string]*entity.Employee
	Certifications map[string]*entity.CertificationType
	Records        map[string]*entity.ExpiryRecord
	Filters        map[string]*entity.CustomFilter
	Subscriptions  map[string]*entity.Subscription
	Events         []*entity.WebhookEvent

	// Errores inyectables.
	FailEventLog error
	FailTx       error
	// DuplicateOnNextCreate simula una réplica concurrente que inserta la misma
	// suscripción entre la búsqueda y el insert.
	DuplicateOnNextCreate *entity.Subscription
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Companies:      map[string]*entity.Company{},
		NotifyEmails:   map[string]*entity.NotificationEmail{},
		Users:          map[string]*entity.User{},
		Employees:      map[string]*entity.Employee{},
		Certifications: map[string]*entity.CertificationType{},
		Records:        map[string]*entity.ExpiryRecord{},
		Filters:        map[string]*entity.CustomFilter{},
		Subscriptions:  map[string]*entity.Subscription{},
	}
}

func (s *Store) CompanyRepo() *CompanyRepo                     { return &CompanyRepo{s} }
func (s *Store) NotificationEmailRepo() *NotificationEmailRepo { return &NotificationEmailRepo{s} }
func (s *Store) UserRepo() *UserRepo                           { return &UserRepo{s} }
func (s *Store) EmployeeRepo() *EmployeeRepo                   { return &EmployeeRepo{s} }
func (s *Store) CertificationRepo() *CertificationRepo         { return &CertificationRepo{s} }
func (s *Store) RecordRepo() *RecordRepo                       { return &RecordRepo{s} }
func (s *Store) FilterRepo() *FilterRepo                       { return &FilterRepo{s} }
func (s *Store) SubscriptionRepo() *SubscriptionRepo           { return &SubscriptionRepo{s} }
func (s *Store) WebhookEventRepo() *WebhookEventRepo           { return &WebhookEventRepo{s} }
func (s *Store) TxRunner() *TxRunner                           { return &TxRunner{s} }

// ─── Company ─────────────────────────────────────────────────────────────────

type CompanyRepo struct{ s *Store }

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Companies[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.Companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CompanyRepo) GetByNotificationEmail(_ context.Context, email string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.TrimSpace(email)
	for _, id := range sortedKeys(r.s.Companies) {
		c := r.s.Companies[id]
		if c.NotificationEmail != "" && strings.EqualFold(strings.TrimSpace(c.NotificationEmail), email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

// ─── NotificationEmail ───────────────────────────────────────────────────────

type NotificationEmailRepo struct{ s *Store }

var _ repository.NotificationEmailRepository = (*NotificationEmailRepo)(nil)

func (r *NotificationEmailRepo) Create(_ context.Context, e *entity.NotificationEmail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.NotifyEmails {
		if ex.CompanyID == e.CompanyID && strings.EqualFold(ex.Email, e.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *e
	r.s.NotifyEmails[e.ID] = &cp
	return nil
}

func (r *NotificationEmailRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.NotificationEmail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.NotificationEmail
	for _, id := range sortedKeys(r.s.NotifyEmails) {
		if e := r.s.NotifyEmails[id]; e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *NotificationEmailRepo) ListActive(_ context.Context) ([]*entity.NotificationEmail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.NotificationEmail
	for _, id := range sortedKeys(r.s.NotifyEmails) {
		if e := r.s.NotifyEmails[id]; e.Active {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *NotificationEmailRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.NotifyEmails[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.NotifyEmails, id)
	return nil
}

// ─── User ────────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[u.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, companyID, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.Users[id]; ok && u.CompanyID == companyID {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByAuthUserID(_ context.Context, authUserID string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.AuthUserID != "" && u.AuthUserID == authUserID })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) })
}

func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.CompanyID == companyID && strings.EqualFold(u.Email, strings.TrimSpace(email))
	})
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedKeys(r.s.Users) {
		if u := r.s.Users[id]; match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, id := range sortedKeys(r.s.Users) {
		if u := r.s.Users[id]; u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

// ─── Employee ────────────────────────────────────────────────────────────────

type EmployeeRepo struct{ s *Store }

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

func (r *EmployeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.Employees[e.ID] = &cp
	return nil
}

func (r *EmployeeRepo) GetByID(_ context.Context, companyID, id string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.Employees[id]; ok && e.CompanyID == companyID {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *EmployeeRepo) GetByRegistration(_ context.Context, companyID, registration string) (*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedKeys(r.s.Employees) {
		e := r.s.Employees[id]
		if e.CompanyID == companyID && e.RegistrationNumber != "" && e.RegistrationNumber == registration {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *EmployeeRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Employee
	for _, id := range sortedKeys(r.s.Employees) {
		if e := r.s.Employees[id]; e.CompanyID == companyID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *EmployeeRepo) Update(_ context.Context, e *entity.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ex, ok := r.s.Employees[e.ID]; !ok || ex.CompanyID != e.CompanyID {
		return domain.ErrNotFound
	}
	cp := *e
	r.s.Employees[e.ID] = &cp
	return nil
}

func (r *EmployeeRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.Employees[id]; !ok || e.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.Employees, id)
	return nil
}

// ─── CertificationType ───────────────────────────────────────────────────────

type CertificationRepo struct{ s *Store }

var _ repository.CertificationRepository = (*CertificationRepo)(nil)

func (r *CertificationRepo) Create(_ context.Context, c *entity.CertificationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ex := range r.s.Certifications {
		if ex.CompanyID == c.CompanyID && ex.Kind == c.Kind && ex.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.Certifications[c.ID] = &cp
	return nil
}

func (r *CertificationRepo) GetByID(_ context.Context, companyID, id string) (*entity.CertificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.Certifications[id]; ok && c.CompanyID == companyID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CertificationRepo) ListByCompany(_ context.Context, companyID string) ([]entity.CertificationType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CertificationType
	for _, id := range sortedKeys(r.s.Certifications) {
		if c := r.s.Certifications[id]; c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *CertificationRepo) Update(_ context.Context, c *entity.CertificationType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ex, ok := r.s.Certifications[c.ID]; !ok || ex.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.Certifications[c.ID] = &cp
	return nil
}

func (r *CertificationRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.Certifications[id]; !ok || c.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.Certifications, id)
	return nil
}

// ─── ExpiryRecord ────────────────────────────────────────────────────────────

type RecordRepo struct{ s *Store }

var _ repository.ExpiryRecordRepository = (*RecordRepo)(nil)

func (r *RecordRepo) Create(_ context.Context, rec *entity.ExpiryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *rec
	r.s.Records[rec.ID] = &cp
	return nil
}

func (r *RecordRepo) GetByID(_ context.Context, companyID, id string) (*entity.ExpiryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.Records[id]; ok && rec.CompanyID == companyID {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *RecordRepo) ListByCompany(_ context.Context, companyID string) ([]entity.ExpiryRecord, error) {
	return r.list(func(rec *entity.ExpiryRecord) bool { return rec.CompanyID == companyID }), nil
}

func (r *RecordRepo) ListDueOnOrBefore(_ context.Context, dateISO string) ([]entity.ExpiryRecord, error) {
	return r.list(func(rec *entity.ExpiryRecord) bool {
		return rec.DueDate != "" && rec.DueDate <= dateISO
	}), nil
}

func (r *RecordRepo) list(match func(*entity.ExpiryRecord) bool) []entity.ExpiryRecord {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.ExpiryRecord
	for _, id := range sortedKeys(r.s.Records) {
		if rec := r.s.Records[id]; match(rec) {
			out = append(out, *rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out
}

func (r *RecordRepo) Update(_ context.Context, rec *entity.ExpiryRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ex, ok := r.s.Records[rec.ID]; !ok || ex.CompanyID != rec.CompanyID {
		return domain.ErrNotFound
	}
	cp := *rec
	r.s.Records[rec.ID] = &cp
	return nil
}

func (r *RecordRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec, ok := r.s.Records[id]; !ok || rec.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.Records, id)
	return nil
}

// ─── CustomFilter ────────────────────────────────────────────────────────────

type FilterRepo struct{ s *Store }

var _ repository.CustomFilterRepository = (*FilterRepo)(nil)

func (r *FilterRepo) Create(_ context.Context, f *entity.CustomFilter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *f
	r.s.Filters[f.ID] = &cp
	return nil
}

func (r *FilterRepo) ListByCompany(_ context.Context, companyID string) ([]entity.CustomFilter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.CustomFilter
	for _, id := range sortedKeys(r.s.Filters) {
		if f := r.s.Filters[id]; f.CompanyID == companyID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *FilterRepo) Update(_ context.Context, f *entity.CustomFilter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ex, ok := r.s.Filters[f.ID]; !ok || ex.CompanyID != f.CompanyID {
		return domain.ErrNotFound
	}
	cp := *f
	r.s.Filters[f.ID] = &cp
	return nil
}

func (r *FilterRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if f, ok := r.s.Filters[id]; !ok || f.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.Filters, id)
	return nil
}

// ─── Subscription ────────────────────────────────────────────────────────────

type SubscriptionRepo struct{ s *Store }

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

func (r *SubscriptionRepo) GetByKey(_ context.Context, key entity.SubscriptionKey) (*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub := r.byKey(key); sub != nil {
		cp := *sub
		return &cp, nil
	}
	return nil, nil
}

func (r *SubscriptionRepo) byKey(key entity.SubscriptionKey) *entity.Subscription {
	for _, id := range sortedKeys(r.s.Subscriptions) {
		if sub := r.s.Subscriptions[id]; sub.Key() == key {
			return sub
		}
	}
	return nil
}

func (r *SubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if racer := r.s.DuplicateOnNextCreate; racer != nil {
		r.s.DuplicateOnNextCreate = nil
		cp := *racer
		r.s.Subscriptions[cp.ID] = &cp
	}
	if r.byKey(sub.Key()) != nil {
		return domain.ErrDuplicate
	}
	cp := *sub
	r.s.Subscriptions[sub.ID] = &cp
	return nil
}

func (r *SubscriptionRepo) Update(_ context.Context, sub *entity.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Subscriptions[sub.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *sub
	r.s.Subscriptions[sub.ID] = &cp
	return nil
}

func (r *SubscriptionRepo) UpdateStatus(_ context.Context, key entity.SubscriptionKey, status string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub := r.byKey(key)
	if sub == nil {
		return false, nil
	}
	sub.Status = status
	return true, nil
}

func (r *SubscriptionRepo) GetActive(_ context.Context, companyID string, asOf time.Time) (*entity.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *entity.Subscription
	for _, sub := range r.s.Subscriptions {
		if sub.CompanyID != companyID || sub.Status != entity.SubscriptionActive || sub.EndDate.Before(asOf) {
			continue
		}
		if best == nil || sub.StartDate.After(best.StartDate) {
			best = sub
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// ─── WebhookEvent ────────────────────────────────────────────────────────────

type WebhookEventRepo struct{ s *Store }

var _ repository.WebhookEventRepository = (*WebhookEventRepo)(nil)

func (r *WebhookEventRepo) Create(_ context.Context, e *entity.WebhookEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailEventLog != nil {
		return r.s.FailEventLog
	}
	cp := *e
	r.s.Events = append(r.s.Events, &cp)
	return nil
}

// ─── TxRunner ────────────────────────────────────────────────────────────────

// TxRunner aplica los cambios de fn solo si fn no devuelve error (rollback simulado).
type TxRunner struct{ s *Store }

var _ ports.TenantTxRunner = (*TxRunner)(nil)

func (t *TxRunner) RunTenant(ctx context.Context, fn func(repository.CompanyRepository, repository.UserRepository) error) error {
	if t.s.FailTx != nil {
		return t.s.FailTx
	}
	staged := NewStore()
	if err := fn(staged.CompanyRepo(), staged.UserRepo()); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for id, c := range staged.Companies {
		t.s.Companies[id] = c
	}
	for id, u := range staged.Users {
		t.s.Users[id] = u
	}
	return nil
}

// ─── EmailSender ─────────────────────────────────────────────────────────────

// Sender guarda los e-mails enviados; FailFor hace fallar los envíos cuyo primer
// destinatario coincida.
type Sender struct {
	mu      sync.Mutex
	Sent    []ports.EmailMessage
	FailFor map[string]bool
}

var _ ports.EmailSender = (*Sender)(nil)

func (f *Sender) Send(_ context.Context, msg ports.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(msg.To) > 0 && f.FailFor[msg.To[0]] {
		return ErrFake
	}
	f.Sent = append(f.Sent, msg)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
