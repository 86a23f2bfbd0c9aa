package query

import (
	"slices"
	"time"

	"github.com/magabrotheeeer/members-console/internal/lib/month"
	"github.com/magabrotheeeer/members-console/internal/lib/textnorm"
)

// Spec описывает, как движок читает записи конкретного типа.
type Spec[T any] struct {
	// Name текст, по которому идёт поиск.
	Name func(T) string
	// Status значение для фильтра статуса.
	Status func(T) string
	// Period расчётный период записи. nil отключает фильтр периода.
	Period func(T) month.Period
	// Compare порядок сортировки после фильтрации. nil сохраняет исходный порядок.
	Compare func(a, b T) int
}

// Engine фильтрует, сортирует и разбивает на страницы коллекцию записей типа T.
// Engine не хранит состояния и безопасен для одновременного использования.
type Engine[T any] struct {
	spec Spec[T]
}

// NewEngine создаёт движок по описанию spec.
func NewEngine[T any](spec Spec[T]) *Engine[T] {
	return &Engine[T]{spec: spec}
}

// Result результат пересчёта.
type Result[T any] struct {
	// State состояние после пересчёта: PageIndex приведён к [1, TotalPages].
	State State
	// Page видимая страница.
	Page Page[T]
	// PeriodApplied false, если фильтр периода был пропущен из-за активного поиска
	// или не поддерживается типом записи.
	PeriodApplied bool
}

// Recompute вычисляет видимую страницу: нормализация, фильтрация, сортировка, пагинация.
// Непустой поиск отключает фильтр периода, статус применяется всегда.
func (e *Engine[T]) Recompute(st State, items []T, now time.Time) Result[T] {
	// Поиск из одних диакритических знаков после нормализации пуст и период не отключает.
	searching := textnorm.Normalize(st.Search) != ""
	usePeriod := e.spec.Period != nil && !searching

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if searching && !textnorm.Matches(e.spec.Name(item), st.Search) {
			continue
		}
		if st.Status != "" && st.Status != StatusAll && e.spec.Status(item) != st.Status {
			continue
		}
		if usePeriod && !st.Period.Matches(e.spec.Period(item), now) {
			continue
		}
		filtered = append(filtered, item)
	}

	if e.spec.Compare != nil {
		slices.SortStableFunc(filtered, e.spec.Compare)
	}

	if st.PageSize < 1 {
		st.PageSize = DefaultPageSize
	}
	totalPages := TotalPages(len(filtered), st.PageSize)
	st.PageIndex = min(max(st.PageIndex, 1), totalPages)

	return Result[T]{
		State:         st,
		Page:          Paginate(filtered, st.PageSize, st.PageIndex),
		PeriodApplied: usePeriod,
	}
}
