// Package format содержит функции отображения полей в формате,
// привычном для пользователей консоли (pt-BR): телефон, сумма в реалах, дата, месяц.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName возвращает название месяца по-португальски или пустую строку вне 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// Phone форматирует бразильский номер по количеству цифр:
// 11 → (XX) XXXXX-XXXX, 10 → (XX) XXXX-XXXX, 9 → XXXXX-XXXX, 8 → XXXX-XXXX.
// Остальные значения возвращаются без изменений.
func Phone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()

	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	case 9:
		return d[:5] + "-" + d[5:]
	case 8:
		return d[:4] + "-" + d[4:]
	default:
		return phone
	}
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency форматирует сумму в реалах: 1234.5 → "R$ 1.234,50".
func Currency(amount float64) string {
	cents := int64(math.Round(math.Abs(amount) * 100))
	sign := ""
	if amount < 0 && cents > 0 {
		sign = "-"
	}
	whole := printer.Sprintf("%d", cents/100)
	return fmt.Sprintf("%sR$ %s,%02d", sign, whole, cents%100)
}

// Date форматирует дату как dd/mm/yyyy в зоне loc. Отсутствующая дата выводится как "-".
func Date(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	if loc != nil {
		return t.In(loc).Format("02/01/2006")
	}
	return t.Format("02/01/2006")
}
