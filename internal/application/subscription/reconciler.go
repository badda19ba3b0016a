package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/segvenc-api/internal/application/ports"
	"github.com/jhoicas/segvenc-api/internal/domain"
	"github.com/jhoicas/segvenc-api/internal/domain/entity"
	"github.com/jhoicas/segvenc-api/internal/domain/repository"
	"github.com/jhoicas/segvenc-api/pkg/logger"
)

// defaultPeriod vigencia asumida cuando la pasarela no informa la próxima cobranza.
const defaultPeriod = 30 * 24 * time.Hour

// Acciones aplicadas por el reconciliador (Result.Action).
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionStatusChanged = "status_changed"
	ActionIgnored       = "ignored"
)

// Result resumen de lo que hizo el reconciliador con un evento.
type Result struct {
	EventID        string    `json:"event_id"`
	Kind           EventKind `json:"kind"`
	CompanyID      string    `json:"company_id,omitempty"`
	SubscriptionID string    `json:"subscription_id,omitempty"`
	Action         string    `json:"action"`
	Provisioned    bool      `json:"provisioned"`
}

// Recorder recibe la clasificación de cada evento procesado (métricas).
type Recorder interface {
	WebhookProcessed(gateway string, kind EventKind, action string)
}

type nopRecorder struct{}

func (nopRecorder) WebhookProcessed(string, EventKind, string) {}

// Reconciler aplica los eventos de la pasarela sobre las suscripciones de las empresas.
type Reconciler struct {
	gateway       Gateway
	events        repository.WebhookEventRepository
	subscriptions repository.SubscriptionRepository
	companies     repository.CompanyRepository
	users         repository.UserRepository
	tx            ports.TenantTxRunner
	now           func() time.Time
	log           *logger.Logger
	recorder      Recorder
}

// Option configura un Reconciler.
type Option func(*Reconciler)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithRecorder registra métricas por evento.
func WithRecorder(rec Recorder) Option {
	return func(r *Reconciler) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewReconciler construye el reconciliador con sus dependencias.
func NewReconciler(
	gateway Gateway,
	events repository.WebhookEventRepository,
	subscriptions repository.SubscriptionRepository,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	tx ports.TenantTxRunner,
	log *logger.Logger,
	opts ...Option,
) *Reconciler {
	r := &Reconciler{
		gateway:       gateway,
		events:        events,
		subscriptions: subscriptions,
		companies:     companies,
		users:         users,
		tx:            tx,
		now:           time.Now,
		log:           log,
		recorder:      nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle procesa un cuerpo de webhook. El evento se registra literalmente antes de cualquier
// cambio; si el registro falla no se toca nada y se devuelve el error.
// Devuelve domain.ErrInvalidInput para JSON inválido o sin e-mail del comprador.
func (r *Reconciler) Handle(ctx context.Context, raw []byte) (*Result, error) {
	ev, decodeErr := r.gateway.Decode(raw)
	kind := EventInvalid
	if decodeErr == nil {
		kind = r.gateway.Classify(ev)
	}

	logged := &entity.WebhookEvent{
		ID:         uuid.New().String(),
		Gateway:    r.gateway.Name(),
		EventType:  string(kind),
		RawPayload: raw,
		ReceivedAt: r.now().UTC(),
	}
	if err := r.events.Create(ctx, logged); err != nil {
		return nil, fmt.Errorf("registrar webhook: %w", err)
	}
	res := &Result{EventID: logged.ID, Kind: kind, Action: ActionIgnored}

	if decodeErr != nil {
		r.log.Warn().Err(decodeErr).Str("event_id", logged.ID).Msg("webhook con payload inválido")
		r.recorder.WebhookProcessed(r.gateway.Name(), kind, res.Action)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, decodeErr)
	}
	email := normalizeEmail(ev.BuyerEmail)
	if email == "" {
		r.log.Warn().Str("event_id", logged.ID).Msg("webhook sin e-mail del comprador")
		r.recorder.WebhookProcessed(r.gateway.Name(), kind, res.Action)
		return nil, fmt.Errorf("%w: e-mail del comprador ausente", domain.ErrInvalidInput)
	}
	ev.BuyerEmail = email

	var err error
	switch kind {
	case EventPaidOrRenewed:
		err = r.applyPaid(ctx, ev, res)
	case EventCanceledOrRefunded:
		err = r.applyStatus(ctx, ev, entity.SubscriptionCanceled, res)
	case EventPastDue:
		err = r.applyStatus(ctx, ev, entity.SubscriptionPastDue, res)
	default:
		r.log.Warn().
			Str("event_id", logged.ID).
			Str("order_status", ev.OrderStatus).
			Str("subscription_status", ev.SubscriptionStatus).
			Msg("evento de webhook no reconocido; ignorado")
	}
	if err != nil {
		return nil, err
	}
	r.recorder.WebhookProcessed(r.gateway.Name(), kind, res.Action)
	return res, nil
}

func (r *Reconciler) applyPaid(ctx context.Context, ev GatewayEvent, res *Result) error {
	company, user, provisioned, err := r.resolveTenant(ctx, ev)
	if err != nil {
		return err
	}
	res.CompanyID = company.ID
	res.Provisioned = provisioned

	start := r.now()
	if ev.StartDate != nil {
		start = *ev.StartDate
	} else if ev.ApprovedDate != nil {
		start = *ev.ApprovedDate
	}
	start = midnightUTC(start)
	var end time.Time
	if ev.NextPayment != nil {
		end = midnightUTC(*ev.NextPayment)
	} else {
		end = midnightUTC(start.Add(defaultPeriod))
	}

	sub := &entity.Subscription{
		CompanyID:             company.ID,
		UserID:                user.ID,
		Plan:                  planName(ev),
		Status:                entity.SubscriptionActive,
		StartDate:             start,
		EndDate:               end,
		Gateway:               r.gateway.Name(),
		GatewaySubscriptionID: ev.SubscriptionID,
		GatewaySaleID:         ev.OrderID,
		Amount:                ev.Amount,
	}
	action, err := r.upsert(ctx, sub)
	if err != nil {
		return err
	}
	res.SubscriptionID = sub.ID
	res.Action = action
	r.log.Info().
		Str("company_id", company.ID).
		Str("subscription_id", sub.ID).
		Str("action", action).
		Bool("provisioned", provisioned).
		Msg("suscripción activada")
	return nil
}

// upsert actualiza la fila existente o la inserta. Si una réplica concurrente inserta primero,
// el conflicto de unicidad se reintenta como actualización.
func (r *Reconciler) upsert(ctx context.Context, sub *entity.Subscription) (string, error) {
	existing, err := r.subscriptions.GetByKey(ctx, sub.Key())
	if err != nil {
		return "", fmt.Errorf("buscar suscripción: %w", err)
	}
	now := r.now().UTC()
	sub.UpdatedAt = now
	if existing == nil {
		sub.ID = uuid.New().String()
		sub.CreatedAt = now
		err = r.subscriptions.Create(ctx, sub)
		if err == nil {
			return ActionCreated, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return "", fmt.Errorf("crear suscripción: %w", err)
		}
		existing, err = r.subscriptions.GetByKey(ctx, sub.Key())
		if err != nil {
			return "", fmt.Errorf("buscar suscripción: %w", err)
		}
		if existing == nil {
			return "", fmt.Errorf("crear suscripción: %w", domain.ErrConflict)
		}
	}
	sub.ID = existing.ID
	sub.CreatedAt = existing.CreatedAt
	if sub.UserID == "" {
		sub.UserID = existing.UserID
	}
	// Una renovación sin valor informado conserva el último cobrado.
	if sub.Amount.IsZero() {
		sub.Amount = existing.Amount
	}
	if err := r.subscriptions.Update(ctx, sub); err != nil {
		return "", fmt.Errorf("actualizar suscripción: %w", err)
	}
	return ActionUpdated, nil
}

// findCompany busca la empresa del comprador por e-mail de notificación y luego por la empresa
// de su usuario. Devuelve nil si ninguna coincide.
func (r *Reconciler) findCompany(ctx context.Context, email string) (*entity.Company, error) {
	company, err := r.companies.GetByNotificationEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar empresa: %w", err)
	}
	if company != nil {
		return company, nil
	}
	u, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	company, err = r.companies.GetByID(ctx, u.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("buscar empresa: %w", err)
	}
	return company, nil
}

// resolveTenant localiza la empresa del comprador; si no existe, provisiona empresa y usuario
// admin en una sola transacción.
func (r *Reconciler) resolveTenant(ctx context.Context, ev GatewayEvent) (*entity.Company, *entity.User, bool, error) {
	company, err := r.findCompany(ctx, ev.BuyerEmail)
	if err != nil {
		return nil, nil, false, err
	}
	if company == nil {
		c, u, err := r.provision(ctx, ev)
		return c, u, true, err
	}

	user, err := r.users.GetByEmailAndCompany(ctx, ev.BuyerEmail, company.ID)
	if err != nil {
		return nil, nil, false, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		user = newAdmin(company.ID, ev, r.now())
		if err := r.users.Create(ctx, user); err != nil {
			return nil, nil, false, fmt.Errorf("crear usuario: %w", err)
		}
	}
	return company, user, false, nil
}

func (r *Reconciler) provision(ctx context.Context, ev GatewayEvent) (*entity.Company, *entity.User, error) {
	now := r.now()
	name := ev.BuyerName
	if name == "" {
		name = entity.DefaultCompanyName
	}
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              name,
		NotificationEmail: ev.BuyerEmail,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	user := newAdmin(company.ID, ev, now)
	err := r.tx.RunTenant(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		if err := companies.Create(ctx, company); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	r.log.Info().Str("company_id", company.ID).Str("email", ev.BuyerEmail).Msg("empresa provisionada por webhook")
	return company, user, nil
}

func (r *Reconciler) applyStatus(ctx context.Context, ev GatewayEvent, status string, res *Result) error {
	company, err := r.findCompany(ctx, ev.BuyerEmail)
	if err != nil {
		return err
	}
	if company == nil {
		r.log.Warn().Str("email", ev.BuyerEmail).Str("status", status).Msg("empresa no encontrada para evento de suscripción")
		return nil
	}
	res.CompanyID = company.ID
	key := entity.SubscriptionKey{
		CompanyID:             company.ID,
		Gateway:               r.gateway.Name(),
		GatewaySubscriptionID: ev.SubscriptionID,
	}
	found, err := r.subscriptions.UpdateStatus(ctx, key, status)
	if err != nil {
		return fmt.Errorf("actualizar estado de suscripción: %w", err)
	}
	if !found {
		r.log.Warn().
			Str("company_id", company.ID).
			Str("gateway_subscription_id", ev.SubscriptionID).
			Msg("suscripción no encontrada; evento sin efecto")
		return nil
	}
	res.Action = ActionStatusChanged
	return nil
}

func newAdmin(companyID string, ev GatewayEvent, now time.Time) *entity.User {
	return &entity.User{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      ev.BuyerName,
		Email:     ev.BuyerEmail,
		Role:      entity.RoleAdmin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func planName(ev GatewayEvent) string {
	switch {
	case ev.PlanName != "":
		return ev.PlanName
	case ev.ProductName != "":
		return ev.ProductName
	case ev.ProductID != "":
		return "kiwify_prod_" + ev.ProductID
	default:
		return "kiwify"
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
