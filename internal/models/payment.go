package models

import "time"

// PaymentStatus статус платежа.
type PaymentStatus string

const (
	// PaymentPaid платёж оплачен, PaidAt заполнен.
	PaymentPaid PaymentStatus = "PAID"
	// PaymentPending платёж ожидает оплаты.
	PaymentPending PaymentStatus = "PENDING"
)

// Payment ежемесячный платёж участника за расчётный период (Month, Year).
type Payment struct {
	ID          string        `json:"id"`
	MemberID    string        `json:"memberId"`
	Member      *Member       `json:"member,omitempty"`
	Month       int           `json:"month"`
	Year        int           `json:"year"`
	Amount      float64       `json:"amount"`
	Status      PaymentStatus `json:"status"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
	Observation *string       `json:"observation,omitempty"`
	Method      *string       `json:"method,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MemberName имя участника платежа или пустая строка, если участник не вложен в ответ.
func (p Payment) MemberName() string {
	if p.Member == nil {
		return ""
	}
	return p.Member.Name
}

// InvoiceInput параметры массовой генерации счетов для активных участников.
type InvoiceInput struct {
	Month int     `json:"month" validate:"required,min=1,max=12"`
	Year  int     `json:"year" validate:"required,min=2000"`
	Value float64 `json:"value" validate:"required,gt=0"`
}

// Credentials тело запроса на вход.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Session результат успешного входа во внешнем API.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
