// Package audit фиксирует удаления записей: пишет их в лог и, если настроен
// RabbitMQ, публикует событие в exchange аудита.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/members-console/internal/lib/sl"
)

// RoutingKeyDeletion ключ маршрутизации событий удаления.
const RoutingKeyDeletion = "deletion"

// Event событие аудита.
type Event struct {
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entity_id"`
	UserID   string    `json:"user_id"`
	At       time.Time `json:"at"`
}

// Deletion событие удаления записи entity с идентификатором id.
func Deletion(entity, id, userID string, at time.Time) Event {
	return Event{
		Action:   "delete",
		Entity:   entity,
		EntityID: id,
		UserID:   userID,
		At:       at,
	}
}

// Channel часть amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Trail пишет события в лог и публикует их в exchange, если задан канал.
type Trail struct {
	log      *slog.Logger
	exchange string

	mu sync.Mutex
	ch Channel
}

// NewTrail создаёт журнал аудита. ch может быть nil, тогда события только логируются.
func NewTrail(log *slog.Logger, ch Channel, exchange string) *Trail {
	return &Trail{
		log:      log,
		ch:       ch,
		exchange: exchange,
	}
}

// Record фиксирует событие. Ошибка публикации возвращается, запись в лог делается всегда.
func (t *Trail) Record(_ context.Context, e Event) error {
	const op = "audit.Record"

	t.log.Info("record deleted",
		slog.String("op", op),
		slog.String("entity", e.Entity),
		slog.String("entity_id", e.EntityID),
		slog.String("user_id", e.UserID),
	)

	if t.ch == nil {
		return nil
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// amqp.Channel нельзя использовать для публикации из нескольких горутин одновременно.
	t.mu.Lock()
	err = t.ch.Publish(
		t.exchange,
		RoutingKeyDeletion,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.At,
		},
	)
	t.mu.Unlock()
	if err != nil {
		t.log.Error("failed to publish audit event", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
