// Package query вычисляет видимую страницу списка участников или платежей:
// фильтрация по тексту, статусу и периоду, сортировка и пагинация
// поверх коллекции, уже загруженной в память.
package query

import "github.com/magabrotheeeer/members-console/internal/lib/month"

// StatusAll значение фильтра статуса, отключающее фильтрацию.
const StatusAll = "ALL"

// State состояние запроса одного представления. Живёт, пока открыто представление,
// и никогда не разделяется между представлениями.
type State struct {
	Search    string       `json:"search"`
	Status    string       `json:"status"`
	Period    PeriodFilter `json:"period"`
	PageSize  int          `json:"page_size"`
	PageIndex int          `json:"page_index"`
}

// DefaultState состояние только что открытого представления.
func DefaultState() State {
	return State{
		Status:    StatusAll,
		Period:    PeriodFilter{Mode: PeriodCurrentMonth},
		PageSize:  DefaultPageSize,
		PageIndex: 1,
	}
}

// resetKey набор критериев, изменение любого из которых возвращает пагинацию на первую страницу.
// PageIndex сюда не входит.
type resetKey struct {
	search        string
	status        string
	mode          PeriodMode
	specificMonth int
	specificYear  int
	rangeFrom     month.Period
	rangeTo       month.Period
	pageSize      int
}

func (s State) resetKey() resetKey {
	return resetKey{
		search:        s.Search,
		status:        s.Status,
		mode:          s.Period.Mode,
		specificMonth: s.Period.Month,
		specificYear:  s.Period.Year,
		rangeFrom:     s.Period.From,
		rangeTo:       s.Period.To,
		pageSize:      s.PageSize,
	}
}

// Apply применяет изменение к состоянию. Если изменился хотя бы один критерий
// из набора сброса, PageIndex принудительно становится 1 и возвращается true.
// Изменение одного только PageIndex сброс не вызывает.
func (s *State) Apply(mutate func(*State)) bool {
	before := s.resetKey()
	mutate(s)
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.resetKey() == before {
		return false
	}
	s.PageIndex = 1
	return true
}

// SetSearch меняет строку поиска.
func (s *State) SetSearch(text string) bool {
	return s.Apply(func(st *State) { st.Search = text })
}

// SetStatus меняет фильтр статуса, пустое значение равносильно StatusAll.
func (s *State) SetStatus(status string) bool {
	if status == "" {
		status = StatusAll
	}
	return s.Apply(func(st *State) { st.Status = status })
}

// SetPeriodMode меняет режим периода, выбранные месяц и год сохраняются.
func (s *State) SetPeriodMode(mode PeriodMode) bool {
	return s.Apply(func(st *State) { st.Period.Mode = mode })
}

// SetSpecific выбирает конкретный месяц и год и переключает режим на PeriodSpecific.
func (s *State) SetSpecific(month, year int) bool {
	return s.Apply(func(st *State) {
		st.Period.Mode = PeriodSpecific
		st.Period.Month = month
		st.Period.Year = year
	})
}

// SetRange выбирает диапазон периодов и переключает режим на PeriodRange.
// Нулевой период снимает соответствующую границу.
func (s *State) SetRange(from, to month.Period) bool {
	return s.Apply(func(st *State) {
		st.Period.Mode = PeriodRange
		st.Period.From = from
		st.Period.To = to
	})
}

// SetPageSize меняет размер страницы. Неположительные значения игнорируются.
func (s *State) SetPageSize(size int) bool {
	if size < 1 {
		return false
	}
	return s.Apply(func(st *State) { st.PageSize = size })
}

// Next переходит на следующую страницу. На последней странице ничего не делает.
func (s *State) Next(totalPages int) bool {
	if s.PageIndex >= totalPages {
		return false
	}
	s.PageIndex++
	return true
}

// Previous переходит на предыдущую страницу. На первой странице ничего не делает.
func (s *State) Previous() bool {
	if s.PageIndex <= 1 {
		return false
	}
	s.PageIndex--
	return true
}

// GoTo переходит на страницу page, если она лежит в [1, totalPages].
func (s *State) GoTo(page, totalPages int) bool {
	if page < 1 || page > max(1, totalPages) || page == s.PageIndex {
		return false
	}
	s.PageIndex = page
	return true
}
