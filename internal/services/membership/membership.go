// Package membership бизнес-логика консоли поверх внешнего API: чтение коллекций
// с кешированием в Redis, изменения записей с инвалидацией кеша и аудит удалений.
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/members-console/internal/audit"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/models"
)

// API внешний сервис, в котором хранятся участники и платежи.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
	Members(ctx context.Context, userID string) ([]models.Member, error)
	CreateMember(ctx context.Context, userID string, in models.MemberInput) (*models.Member, error)
	UpdateMember(ctx context.Context, userID, memberID string, in models.MemberInput) (*models.Member, error)
	DeleteMember(ctx context.Context, userID, memberID string) error
	Payments(ctx context.Context, userID string) ([]models.Payment, error)
	PayPayment(ctx context.Context, userID, paymentID string) error
	DeletePayment(ctx context.Context, userID, paymentID string) error
	GenerateInvoices(ctx context.Context, userID string, in models.InvoiceInput) error
}

// Cache описывает методы для кэширования коллекций.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Auditor фиксирует события удаления.
type Auditor interface {
	Record(ctx context.Context, e audit.Event) error
}

// Service операции консоли над участниками и платежами пользователя.
type Service struct {
	api     API
	cache   Cache
	auditor Auditor
	log     *slog.Logger
	ttl     time.Duration
	now     func() time.Time
}

// New создаёт сервис. cache может быть nil, тогда коллекции всегда читаются из API.
func New(api API, cache Cache, auditor Auditor, log *slog.Logger, ttl time.Duration) *Service {
	return &Service{
		api:     api,
		cache:   cache,
		auditor: auditor,
		log:     log,
		ttl:     ttl,
		now:     time.Now,
	}
}

func membersKey(userID string) string  { return "members:" + userID }
func paymentsKey(userID string) string { return "payments:" + userID }

// Login обменивает учётные данные на токен сессии.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	const op = "membership.Login"
	session, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// ListMembers возвращает всех участников пользователя, при наличии из кеша.
func (s *Service) ListMembers(ctx context.Context, userID string) ([]models.Member, error) {
	var members []models.Member
	if s.fromCache(ctx, membersKey(userID), &members) {
		return members, nil
	}
	return s.ReloadMembers(ctx, userID)
}

// ReloadMembers читает участников из API в обход кеша и обновляет кеш.
func (s *Service) ReloadMembers(ctx context.Context, userID string) ([]models.Member, error) {
	const op = "membership.ReloadMembers"

	members, err := s.api.Members(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, membersKey(userID), members)
	return members, nil
}

// ListPayments возвращает все платежи участников пользователя, при наличии из кеша.
func (s *Service) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if s.fromCache(ctx, paymentsKey(userID), &payments) {
		return payments, nil
	}
	return s.ReloadPayments(ctx, userID)
}

// ReloadPayments читает платежи из API в обход кеша и обновляет кеш.
func (s *Service) ReloadPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	const op = "membership.ReloadPayments"

	payments, err := s.api.Payments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, paymentsKey(userID), payments)
	return payments, nil
}

// SaveMember создаёт участника, если memberID пуст, иначе изменяет существующего.
func (s *Service) SaveMember(ctx context.Context, userID, memberID string, in models.MemberInput) (*models.Member, error) {
	const op = "membership.SaveMember"
	// Платежи содержат вложенного участника, поэтому сбрасываются оба ключа.
	defer s.invalidate(ctx, membersKey(userID), paymentsKey(userID))

	var (
		member *models.Member
		err    error
	)
	if memberID == "" {
		member, err = s.api.CreateMember(ctx, userID, in)
	} else {
		member, err = s.api.UpdateMember(ctx, userID, memberID, in)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member saved", slog.String("op", op), slog.String("member_id", member.ID))
	return member, nil
}

// RemoveMember удаляет участника и фиксирует событие аудита.
func (s *Service) RemoveMember(ctx context.Context, userID, memberID string) error {
	const op = "membership.RemoveMember"
	defer s.invalidate(ctx, membersKey(userID), paymentsKey(userID))

	if err := s.api.DeleteMember(ctx, userID, memberID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.record(ctx, audit.Deletion("member", memberID, userID, s.now()))
	return nil
}

// PayPayment отмечает платёж оплаченным.
func (s *Service) PayPayment(ctx context.Context, userID, paymentID string) error {
	const op = "membership.PayPayment"
	defer s.invalidate(ctx, paymentsKey(userID))

	if err := s.api.PayPayment(ctx, userID, paymentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment marked as paid", slog.String("op", op), slog.String("payment_id", paymentID))
	return nil
}

// RemovePayment удаляет платёж и фиксирует событие аудита.
func (s *Service) RemovePayment(ctx context.Context, userID, paymentID string) error {
	const op = "membership.RemovePayment"
	defer s.invalidate(ctx, paymentsKey(userID))

	if err := s.api.DeletePayment(ctx, userID, paymentID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.record(ctx, audit.Deletion("payment", paymentID, userID, s.now()))
	return nil
}

// GenerateInvoices выставляет счета активным участникам за указанный месяц.
func (s *Service) GenerateInvoices(ctx context.Context, userID string, in models.InvoiceInput) error {
	const op = "membership.GenerateInvoices"
	defer s.invalidate(ctx, paymentsKey(userID))

	if err := s.api.GenerateInvoices(ctx, userID, in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("invoices generated",
		slog.String("op", op),
		slog.Int("month", in.Month),
		slog.Int("year", in.Year),
	)
	return nil
}

func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to cache collection", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}

func (s *Service) record(ctx context.Context, e audit.Event) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Record(ctx, e); err != nil {
		s.log.Error("failed to record audit event", sl.Err(err))
	}
}
