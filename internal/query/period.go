package query

import (
	"time"

	"github.com/magabrotheeeer/members-console/internal/lib/month"
)

// PeriodMode режим фильтра периода для платежей.
type PeriodMode string

const (
	// PeriodAll не ограничивает период.
	PeriodAll PeriodMode = "all"
	// PeriodCurrentMonth текущий месяц относительно now.
	PeriodCurrentMonth PeriodMode = "current_month"
	// PeriodLastMonth предыдущий календарный месяц.
	PeriodLastMonth PeriodMode = "last_month"
	// PeriodLast3Months текущий и два предыдущих месяца, без верхней границы.
	PeriodLast3Months PeriodMode = "last_3_months"
	// PeriodLastYear последние двенадцать месяцев, без верхней границы.
	PeriodLastYear PeriodMode = "last_year"
	// PeriodSpecific явно выбранные месяц и год.
	PeriodSpecific PeriodMode = "specific"
	// PeriodRange периоды от From до To включительно; незаданная граница не ограничивает.
	PeriodRange PeriodMode = "range"
)

var periodModes = map[string]PeriodMode{
	string(PeriodAll):          PeriodAll,
	string(PeriodCurrentMonth): PeriodCurrentMonth,
	string(PeriodLastMonth):    PeriodLastMonth,
	string(PeriodLast3Months):  PeriodLast3Months,
	string(PeriodLastYear):     PeriodLastYear,
	string(PeriodSpecific):     PeriodSpecific,
	string(PeriodRange):        PeriodRange,
}

// ParsePeriodMode разбирает режим периода из строки запроса.
func ParsePeriodMode(s string) (PeriodMode, bool) {
	mode, ok := periodModes[s]
	return mode, ok
}

// PeriodFilter режим периода и параметры явных режимов: месяц и год для PeriodSpecific,
// границы для PeriodRange.
type PeriodFilter struct {
	Mode  PeriodMode   `json:"mode"`
	Month int          `json:"month,omitempty"`
	Year  int          `json:"year,omitempty"`
	From  month.Period `json:"from,omitzero"`
	To    month.Period `json:"to,omitzero"`
}

// Matches сообщает, попадает ли расчётный период p в окно фильтра относительно now.
// Текущие месяц и год берутся из now в его временной зоне.
// Период с месяцем вне 1..12 не попадает ни в одно окно, кроме PeriodAll.
func (f PeriodFilter) Matches(p month.Period, now time.Time) bool {
	if f.Mode == "" || f.Mode == PeriodAll {
		return true
	}
	if !p.Valid() {
		return false
	}

	current := month.Of(now)
	switch f.Mode {
	case PeriodCurrentMonth:
		return p.Equal(current)
	case PeriodLastMonth:
		return p.Equal(current.AddMonths(-1))
	case PeriodLast3Months:
		return p.Compare(current.AddMonths(-2)) >= 0
	case PeriodLastYear:
		return p.Compare(current.AddMonths(-12)) >= 0
	case PeriodSpecific:
		selected := month.Period{Year: f.Year, Month: f.Month}
		return selected.Valid() && selected.Year > 0 && p.Equal(selected)
	case PeriodRange:
		return withinBound(p, f.From, 1) && withinBound(p, f.To, -1)
	default:
		return false
	}
}

// withinBound проверяет одну границу диапазона: sign 1 для нижней, -1 для верхней.
// Незаданная граница пропускает всё, некорректная не пропускает ничего.
func withinBound(p, bound month.Period, sign int) bool {
	if bound.IsZero() {
		return true
	}
	if !bound.Valid() {
		return false
	}
	return p.Compare(bound)*sign >= 0
}
