// Package listing общий разбор параметров списка и формат ответа
// для обработчиков списков участников и платежей.
//
// Параметры запроса применяются к представлению как изменения: сначала
// критерии фильтрации и размер страницы, затем, только если ни один критерий
// не изменился, переход по страницам.
package listing

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/members-console/internal/apiclient"
	"github.com/magabrotheeeer/members-console/internal/lib/month"
	"github.com/magabrotheeeer/members-console/internal/query"
)

// Значения параметра nav.
const (
	NavNext = "next"
	NavPrev = "prev"
)

// Params параметры запроса списка. nil означает, что параметр не передан.
type Params struct {
	Search  *string
	Status  *string
	Period  *query.PeriodMode
	Month   *int
	Year    *int
	From    *month.Period
	To      *month.Period
	PerPage *int
	Page    *int
	Nav     string
	Refresh bool
}

// Parse разбирает параметры списка. statuses допустимые значения status помимо ALL;
// withPeriod разрешает параметры period, month, year, from и to.
func Parse(values url.Values, statuses []string, withPeriod bool) (Params, error) {
	var p Params

	if values.Has("q") {
		q := strings.TrimSpace(values.Get("q"))
		p.Search = &q
	}

	if values.Has("status") {
		status := strings.ToUpper(values.Get("status"))
		if status == "" {
			status = query.StatusAll
		}
		if status != query.StatusAll && !slices.Contains(statuses, status) {
			return Params{}, fmt.Errorf("invalid status %q", values.Get("status"))
		}
		p.Status = &status
	}

	if withPeriod {
		if values.Has("period") {
			mode, ok := query.ParsePeriodMode(values.Get("period"))
			if !ok {
				return Params{}, fmt.Errorf("invalid period %q", values.Get("period"))
			}
			p.Period = &mode
		}
		var err error
		if p.Month, err = optionalInt(values, "month"); err != nil {
			return Params{}, err
		}
		if p.Year, err = optionalInt(values, "year"); err != nil {
			return Params{}, err
		}
		if p.From, err = optionalPeriod(values, "from"); err != nil {
			return Params{}, err
		}
		if p.To, err = optionalPeriod(values, "to"); err != nil {
			return Params{}, err
		}
	}

	perPage, err := optionalInt(values, "per_page")
	if err != nil {
		return Params{}, err
	}
	if perPage != nil && !query.ValidPageSize(*perPage) {
		return Params{}, fmt.Errorf("per_page must be one of %v", query.PageSizes)
	}
	p.PerPage = perPage

	if p.Page, err = optionalInt(values, "page"); err != nil {
		return Params{}, err
	}

	switch nav := values.Get("nav"); nav {
	case "", NavNext, NavPrev:
		p.Nav = nav
	default:
		return Params{}, fmt.Errorf("invalid nav %q", nav)
	}

	if values.Has("refresh") {
		p.Refresh, err = strconv.ParseBool(values.Get("refresh"))
		if err != nil {
			return Params{}, fmt.Errorf("invalid refresh: %w", err)
		}
	}

	return p, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	if !values.Has(key) {
		return nil, nil
	}
	n, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &n, nil
}

// optionalPeriod разбирает период YYYY-MM; пустое значение снимает границу.
func optionalPeriod(values url.Values, key string) (*month.Period, error) {
	if !values.Has(key) {
		return nil, nil
	}
	var p month.Period
	if raw := values.Get(key); raw != "" {
		parsed, err := month.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: expected YYYY-MM", key)
		}
		p = parsed
	}
	return &p, nil
}

// Criteria изменение критериев из параметров или nil, если их нет.
func (p Params) Criteria() func(*query.State) {
	if p.Search == nil && p.Status == nil && p.Period == nil &&
		p.Month == nil && p.Year == nil && p.From == nil && p.To == nil && p.PerPage == nil {
		return nil
	}
	return func(st *query.State) {
		if p.Search != nil {
			st.Search = *p.Search
		}
		if p.Status != nil {
			st.Status = *p.Status
		}
		if p.Period != nil {
			st.Period.Mode = *p.Period
		}
		if p.Month != nil {
			st.Period.Month = *p.Month
		}
		if p.Year != nil {
			st.Period.Year = *p.Year
		}
		if p.From != nil {
			st.Period.From = *p.From
		}
		if p.To != nil {
			st.Period.To = *p.To
		}
		if p.PerPage != nil {
			st.PageSize = *p.PerPage
		}
	}
}

// Navigation переход по страницам из параметров или nil, если его нет.
// Явный номер страницы важнее nav.
func (p Params) Navigation() func(*query.State, int) {
	switch {
	case p.Page != nil:
		page := *p.Page
		return func(st *query.State, totalPages int) { st.GoTo(page, totalPages) }
	case p.Nav == NavNext:
		return func(st *query.State, totalPages int) { st.Next(totalPages) }
	case p.Nav == NavPrev:
		return func(st *query.State, _ int) { st.Previous() }
	default:
		return nil
	}
}

// PageInfo состояние пагинации для элементов управления.
type PageInfo struct {
	Page        int   `json:"page"`
	PerPage     int   `json:"per_page"`
	Total       int   `json:"total"`
	TotalPages  int   `json:"total_pages"`
	StartRow    int   `json:"start_row"`
	EndRow      int   `json:"end_row"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
	Pages       []int `json:"pages"`
	PageSizes   []int `json:"page_sizes"`
}

// NewPageInfo собирает PageInfo по странице.
func NewPageInfo[T any](p query.Page[T]) PageInfo {
	return PageInfo{
		Page:        p.Index,
		PerPage:     p.Size,
		Total:       p.TotalItems,
		TotalPages:  p.TotalPages,
		StartRow:    p.StartRow(),
		EndRow:      p.EndRow(),
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
		Pages:       p.PageNumbers(),
		PageSizes:   query.PageSizes,
	}
}

// List ответ обработчика списка.
type List[T any] struct {
	Items         []T         `json:"items"`
	Pagination    PageInfo    `json:"pagination"`
	Filters       query.State `json:"filters"`
	PeriodVisible bool        `json:"period_visible"`
	LoadedAt      *time.Time  `json:"loaded_at,omitempty"`
}

// NewList собирает ответ из результата пересчёта, преобразуя записи функцией view.
// periodSupported false для списков без фильтра периода.
func NewList[T, V any](res query.Result[T], periodSupported bool, loadedAt time.Time, view func(T) V) List[V] {
	items := make([]V, 0, len(res.Page.Items))
	for _, item := range res.Page.Items {
		items = append(items, view(item))
	}
	list := List[V]{
		Items:         items,
		Pagination:    NewPageInfo(res.Page),
		Filters:       res.State,
		PeriodVisible: periodSupported && res.PeriodApplied,
	}
	if !loadedAt.IsZero() {
		list.LoadedAt = &loadedAt
	}
	return list
}

// ErrorStatus HTTP-статус и сообщение для ошибки внешнего API.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized, "api rejected the session"
	default:
		return http.StatusBadGateway, "api unavailable"
	}
}
