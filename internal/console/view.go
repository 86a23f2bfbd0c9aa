// Package console хранит открытые представления консоли: состояние запроса,
// загруженную коллекцию и пересчёт видимой страницы.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/metrics"
	"github.com/magabrotheeeer/members-console/internal/query"
)

// Source загружает полную коллекцию записей представления.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// FreshSource источник с кешем, который умеет прочитать коллекцию в обход него.
// Явное обновление представления использует FetchFresh, первая загрузка Fetch.
type FreshSource[T any] interface {
	Source[T]
	FetchFresh(ctx context.Context) ([]T, error)
}

// View представление списка: владеет состоянием запроса и коллекцией,
// пересчитывает страницу при каждом обращении.
type View[T any] struct {
	name    string
	engine  *query.Engine[T]
	source  Source[T]
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu       sync.Mutex
	state    query.State
	items    []T
	loaded   bool
	loadedAt time.Time
}

// NewView создаёт представление с состоянием по умолчанию и пустой коллекцией.
func NewView[T any](name string, engine *query.Engine[T], source Source[T], log *slog.Logger, m *metrics.Metrics, now func() time.Time) *View[T] {
	if now == nil {
		now = time.Now
	}
	return &View[T]{
		name:    name,
		engine:  engine,
		source:  source,
		log:     log.With(slog.String("view", name)),
		metrics: m,
		now:     now,
		state:   query.DefaultState(),
	}
}

// Name имя представления.
func (v *View[T]) Name() string {
	return v.name
}

// Mount загружает коллекцию при первом обращении к представлению.
func (v *View[T]) Mount(ctx context.Context) error {
	const op = "console.View.Mount"

	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	return v.load(ctx, op, v.source.Fetch)
}

// Refresh заменяет коллекцию свежими данными источника в обход его кеша.
// Фильтры и страница не меняются. При ошибке предыдущая коллекция остаётся на месте.
func (v *View[T]) Refresh(ctx context.Context) error {
	const op = "console.View.Refresh"

	fetch := v.source.Fetch
	if fresh, ok := v.source.(FreshSource[T]); ok {
		fetch = fresh.FetchFresh
	}
	return v.load(ctx, op, fetch)
}

// load выполняет fetch без блокировки и подменяет коллекцию целиком.
func (v *View[T]) load(ctx context.Context, op string, fetch func(context.Context) ([]T, error)) error {
	items, err := fetch(ctx)
	if err != nil {
		v.log.Error("failed to refresh collection", slog.String("op", op), sl.Err(err))
		v.metrics.RefreshFailed(v.name)
		return fmt.Errorf("%s: %w", op, err)
	}

	v.mu.Lock()
	v.items = items
	v.loaded = true
	v.loadedAt = v.now()
	v.mu.Unlock()

	v.log.Debug("collection refreshed", slog.String("op", op), slog.Int("count", len(items)))
	return nil
}

// Change под одной блокировкой применяет изменение критериев, затем навигацию
// и возвращает итоговую страницу. Навигация выполняется, только если критерии
// не изменились: смена фильтра всегда возвращает на первую страницу.
func (v *View[T]) Change(criteria func(*query.State), nav func(st *query.State, totalPages int)) query.Result[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	reset := false
	if criteria != nil {
		reset = v.state.Apply(criteria)
	}
	if !reset && nav != nil {
		res := v.recompute()
		nav(&v.state, res.Page.TotalPages)
	}
	return v.recompute()
}

// Next переходит на следующую страницу.
func (v *View[T]) Next() query.Result[T] {
	return v.Change(nil, func(st *query.State, totalPages int) { st.Next(totalPages) })
}

// Previous переходит на предыдущую страницу.
func (v *View[T]) Previous() query.Result[T] {
	return v.Change(nil, func(st *query.State, _ int) { st.Previous() })
}

// GoTo переходит на страницу page, если она существует.
func (v *View[T]) GoTo(page int) query.Result[T] {
	return v.Change(nil, func(st *query.State, totalPages int) { st.GoTo(page, totalPages) })
}

// Page пересчитывает и возвращает видимую страницу.
func (v *View[T]) Page() query.Result[T] {
	return v.Change(nil, nil)
}

// State текущее состояние запроса.
func (v *View[T]) State() query.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Loaded сообщает, была ли коллекция загружена хотя бы раз.
func (v *View[T]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// LoadedAt время последней успешной загрузки, нулевое до первой.
func (v *View[T]) LoadedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loadedAt
}

// recompute вызывается под v.mu. Приведённый к границам номер страницы
// записывается обратно в состояние.
func (v *View[T]) recompute() query.Result[T] {
	start := time.Now()
	res := v.engine.Recompute(v.state, v.items, v.now())
	v.state = res.State
	v.metrics.ObserveRecompute(v.name, time.Since(start))
	return res
}
