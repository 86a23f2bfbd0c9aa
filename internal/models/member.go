package models

import "time"

// MemberStatus статус участника.
type MemberStatus string

const (
	// MemberActive участник активен и получает счета.
	MemberActive MemberStatus = "ACTIVE"
	// MemberInactive участник отключён.
	MemberInactive MemberStatus = "INACTIVE"
)

// Member представляет участника, принадлежащего пользователю.
// Необязательные поля приходят из API как null и хранятся указателями.
type Member struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     *string      `json:"email,omitempty"`
	Phone     *string      `json:"phone,omitempty"`
	Address   *string      `json:"address,omitempty"`
	Status    MemberStatus `json:"status"`
	UserID    string       `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// MemberInput тело запроса на создание или изменение участника.
type MemberInput struct {
	Name    string       `json:"name" validate:"required"`
	Email   string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string       `json:"phone,omitempty" validate:"omitempty,min=8"`
	Address string       `json:"address,omitempty"`
	Status  MemberStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// Value разыменовывает необязательное строковое поле, nil превращается в пустую строку.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
