package paymentpay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/members-console/internal/apiclient"
	"github.com/magabrotheeeer/members-console/internal/console"
	"github.com/magabrotheeeer/members-console/internal/http/middlewarectx"
	"github.com/magabrotheeeer/members-console/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PayPayment(ctx context.Context, userID, paymentID string) error {
	return m.Called(ctx, userID, paymentID).Error(0)
}

func (m *MockService) ListMembers(ctx context.Context, userID string) ([]models.Member, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]models.Member)
	return res, args.Error(1)
}

func (m *MockService) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).([]models.Payment)
	return res, args.Error(1)
}

func TestPayHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная оплата",
			id:   "p1",
			setupMock: func(m *MockService) {
				m.On("PayPayment", mock.Anything, "u1", "p1").Return(nil).Once()
				m.On("ListPayments", mock.Anything, "u1").Return([]models.Payment{{ID: "p1", Status: models.PaymentPaid}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"paid_id":"p1"}}`,
		},
		{
			name:           "пустой id",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "API отклонил сессию",
			id:   "p1",
			setupMock: func(m *MockService) {
				m.On("PayPayment", mock.Anything, "u1", "p1").Return(apiclient.ErrUnauthorized).Once()
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"api rejected the session"}`,
		},
		{
			name: "ошибка API",
			id:   "p1",
			setupMock: func(m *MockService) {
				m.On("PayPayment", mock.Anything, "u1", "p1").Return(errors.New("timeout")).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"status":"Error","error":"api unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			handler := New(logger, svc, console.NewRegistry(svc, logger, nil, time.Now, time.Hour))

			req := httptest.NewRequest(http.MethodPost, "/profile/payments/"+tt.id+"/pay", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserID, "u1")

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
