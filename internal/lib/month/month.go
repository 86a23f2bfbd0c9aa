// Package month реализует арифметику расчётных периодов (месяц, год),
// по которым выставляются платежи участников.
package month

import (
	"fmt"
	"time"
)

// layout формат периода в параметрах запроса и JSON.
const layout = "2006-01"

// Period расчётный период. Month ожидается в диапазоне 1..12,
// но значения вне диапазона допустимы и проверяются через Valid.
type Period struct {
	Year  int
	Month int
}

// Of возвращает период, в который попадает момент t в его собственной временной зоне.
func Of(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Valid сообщает, что месяц лежит в диапазоне 1..12.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

// index номер месяца от нулевого года, удобный для сравнения и сдвигов.
func (p Period) index() int {
	return p.Year*12 + p.Month - 1
}

func fromIndex(i int) Period {
	y, m := i/12, i%12
	if m < 0 {
		y--
		m += 12
	}
	return Period{Year: y, Month: m + 1}
}

// AddMonths сдвигает период на n месяцев с переносом года.
// Январь минус один месяц даёт декабрь предыдущего года.
func (p Period) AddMonths(n int) Period {
	return fromIndex(p.index() + n)
}

// Compare возвращает -1, 0 или 1, сравнивая первые дни периодов.
func (p Period) Compare(o Period) int {
	switch a, b := p.index(), o.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal сравнивает периоды по месяцу и году без нормализации.
func (p Period) Equal(o Period) bool {
	return p.Year == o.Year && p.Month == o.Month
}

// IsZero сообщает, что период не задан.
func (p Period) IsZero() bool {
	return p == Period{}
}

// Parse разбирает период в формате YYYY-MM.
func Parse(s string) (Period, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Period{}, fmt.Errorf("month.Parse: %w", err)
	}
	return Of(t), nil
}

// MarshalText кодирует период как YYYY-MM.
func (p Period) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "%04d-%02d", p.Year, p.Month), nil
}
