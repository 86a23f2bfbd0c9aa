// Package models содержит доменные структуры консоли: пользователя,
// участников и их платежи в том виде, в котором их отдаёт внешний API.
package models

import "time"

// User представляет владельца учётной записи консоли.
// Участники (Member) принадлежат пользователю, консоль использует только его ID.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
