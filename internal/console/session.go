package console

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/members-console/internal/metrics"
	"github.com/magabrotheeeer/members-console/internal/models"
	"github.com/magabrotheeeer/members-console/internal/query"
)

// Collections источник коллекций пользователя.
type Collections interface {
	ListMembers(ctx context.Context, userID string) ([]models.Member, error)
	ListPayments(ctx context.Context, userID string) ([]models.Payment, error)
}

// Reloader источник, который умеет читать коллекции в обход кеша.
// Если Collections реализует Reloader, явное обновление представлений идёт через него.
type Reloader interface {
	ReloadMembers(ctx context.Context, userID string) ([]models.Member, error)
	ReloadPayments(ctx context.Context, userID string) ([]models.Payment, error)
}

// collectionSource источник представления: fetch читает через кеш, fresh в обход.
type collectionSource[T any] struct {
	fetch func(ctx context.Context) ([]T, error)
	fresh func(ctx context.Context) ([]T, error)
}

func (s collectionSource[T]) Fetch(ctx context.Context) ([]T, error) {
	return s.fetch(ctx)
}

func (s collectionSource[T]) FetchFresh(ctx context.Context) ([]T, error) {
	if s.fresh == nil {
		return s.fetch(ctx)
	}
	return s.fresh(ctx)
}

// Session два независимых представления одного пользователя.
type Session struct {
	UserID   string
	Members  *View[models.Member]
	Payments *View[models.Payment]

	lastSeen time.Time
}

// NewSession создаёт представления участников и платежей пользователя userID.
func NewSession(userID string, c Collections, log *slog.Logger, m *metrics.Metrics, now func() time.Time) *Session {
	log = log.With(slog.String("user_id", userID))

	members := collectionSource[models.Member]{
		fetch: func(ctx context.Context) ([]models.Member, error) { return c.ListMembers(ctx, userID) },
	}
	payments := collectionSource[models.Payment]{
		fetch: func(ctx context.Context) ([]models.Payment, error) { return c.ListPayments(ctx, userID) },
	}
	if r, ok := c.(Reloader); ok {
		members.fresh = func(ctx context.Context) ([]models.Member, error) { return r.ReloadMembers(ctx, userID) }
		payments.fresh = func(ctx context.Context) ([]models.Payment, error) { return r.ReloadPayments(ctx, userID) }
	}

	return &Session{
		UserID:   userID,
		Members:  NewView("members", query.NewMemberEngine(), Source[models.Member](members), log, m, now),
		Payments: NewView("payments", query.NewPaymentEngine(), Source[models.Payment](payments), log, m, now),
	}
}

// RefreshMembers перезагружает участников после их изменения. Платежи содержат
// имя участника, поэтому открытое представление платежей тоже перезагружается.
func (s *Session) RefreshMembers(ctx context.Context) error {
	if err := s.Members.Refresh(ctx); err != nil {
		return err
	}
	if s.Payments.Loaded() {
		return s.Payments.Refresh(ctx)
	}
	return nil
}

// RefreshPayments перезагружает платежи после их изменения.
func (s *Session) RefreshPayments(ctx context.Context) error {
	return s.Payments.Refresh(ctx)
}

// Registry хранит сессии по идентификатору пользователя и вытесняет неактивные.
// Все входы одного пользователя разделяют одну сессию: состояние запроса общее,
// а Drop при выходе закрывает её для всех.
type Registry struct {
	collections Collections
	log         *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	idleTTL     time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry создаёт реестр. idleTTL <= 0 отключает вытеснение.
func NewRegistry(c Collections, log *slog.Logger, m *metrics.Metrics, now func() time.Time, idleTTL time.Duration) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		collections: c,
		log:         log,
		metrics:     m,
		now:         now,
		idleTTL:     idleTTL,
		sessions:    make(map[string]*Session),
	}
}

// Get возвращает сессию пользователя, создавая её при первом обращении.
func (r *Registry) Get(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		s = NewSession(userID, r.collections, r.log, r.metrics, r.now)
		r.sessions[userID] = s
		r.log.Debug("session opened", slog.String("user_id", userID))
	}
	s.lastSeen = r.now()
	return s
}

// Lookup возвращает сессию, не создавая её.
func (r *Registry) Lookup(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Drop закрывает сессию пользователя.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Len число открытых сессий.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep удаляет сессии, к которым не обращались дольше idleTTL, и возвращает их число.
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	deadline := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(deadline) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run периодически вызывает Sweep, пока не отменён ctx.
func (r *Registry) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(max(r.idleTTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("idle sessions evicted", slog.Int("count", n))
			}
		}
	}
}
