package query

import (
	"github.com/magabrotheeeer/members-console/internal/lib/month"
	"github.com/magabrotheeeer/members-console/internal/models"
)

// NewMemberEngine движок списка участников: поиск по имени и статус, порядок исходный.
func NewMemberEngine() *Engine[models.Member] {
	return NewEngine(Spec[models.Member]{
		Name:   func(m models.Member) string { return m.Name },
		Status: func(m models.Member) string { return string(m.Status) },
	})
}

// NewPaymentEngine движок списка платежей: поиск по имени участника, статус, период;
// сортировка по (год, месяц) от новых к старым с сохранением порядка равных.
func NewPaymentEngine() *Engine[models.Payment] {
	return NewEngine(Spec[models.Payment]{
		Name:   func(p models.Payment) string { return p.MemberName() },
		Status: func(p models.Payment) string { return string(p.Status) },
		Period: paymentPeriod,
		Compare: func(a, b models.Payment) int {
			return paymentPeriod(b).Compare(paymentPeriod(a))
		},
	})
}

func paymentPeriod(p models.Payment) month.Period {
	return month.Period{Year: p.Year, Month: p.Month}
}
