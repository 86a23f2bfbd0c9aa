// Package apiclient клиент внешнего API, в котором хранятся участники и платежи.
// Консоль не интерпретирует ошибки API и не повторяет запросы.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/members-console/internal/models"
)

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized API отклонил учётные данные.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable API вернул ошибку или недоступен.
	ErrUnavailable = errors.New("api unavailable")
)

// Client HTTP-клиент внешнего API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создаёт клиент API с адресом baseURL и таймаутом timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do выполняет запрос и декодирует JSON-ответ в out, если out не nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s: %w: unexpected status %s", op, ErrUnavailable, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func path(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(escaped, "/")
}

// Login обменивает email и пароль на токен сессии.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var session models.Session
	if err := c.do(ctx, "apiclient.Login", http.MethodPost, "/auth/login", creds, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, fmt.Errorf("apiclient.Login: %w: empty token", ErrUnauthorized)
	}
	return &session, nil
}

// Members возвращает всех участников пользователя.
func (c *Client) Members(ctx context.Context, userID string) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, "apiclient.Members", http.MethodGet, path("members", userID), nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// CreateMember создаёт участника.
func (c *Client) CreateMember(ctx context.Context, userID string, in models.MemberInput) (*models.Member, error) {
	var created models.Member
	if err := c.do(ctx, "apiclient.CreateMember", http.MethodPost, path("members", userID), in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMember изменяет участника.
func (c *Client) UpdateMember(ctx context.Context, userID, memberID string, in models.MemberInput) (*models.Member, error) {
	var updated models.Member
	if err := c.do(ctx, "apiclient.UpdateMember", http.MethodPut, path("members", userID, memberID), in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteMember удаляет участника.
func (c *Client) DeleteMember(ctx context.Context, userID, memberID string) error {
	return c.do(ctx, "apiclient.DeleteMember", http.MethodDelete, path("members", userID, memberID), nil, nil)
}

// Payments возвращает все платежи участников пользователя.
func (c *Client) Payments(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := c.do(ctx, "apiclient.Payments", http.MethodGet, path("payments", userID), nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// PayPayment отмечает платёж оплаченным.
func (c *Client) PayPayment(ctx context.Context, userID, paymentID string) error {
	return c.do(ctx, "apiclient.PayPayment", http.MethodPut, path("payments", userID, paymentID, "pay"), nil, nil)
}

// DeletePayment удаляет платёж.
func (c *Client) DeletePayment(ctx context.Context, userID, paymentID string) error {
	return c.do(ctx, "apiclient.DeletePayment", http.MethodDelete, path("payments", userID, paymentID), nil, nil)
}

// GenerateInvoices выставляет счета всем активным участникам за месяц и год.
func (c *Client) GenerateInvoices(ctx context.Context, userID string, in models.InvoiceInput) error {
	return c.do(ctx, "apiclient.GenerateInvoices", http.MethodPost, path("payments", userID, "invoices"), in, nil)
}
