// Package login реализует HTTP-обработчик входа в консоль.
//
// Учётные данные проверяются внешним API, который возвращает токен сессии.
// Консоль проверяет подпись токена и сохраняет его в cookie, по которой
// SessionGuard пропускает запросы к /profile/*.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/members-console/internal/apiclient"
	"github.com/magabrotheeeer/members-console/internal/http/response"
	"github.com/magabrotheeeer/members-console/internal/lib/jwt"
	"github.com/magabrotheeeer/members-console/internal/lib/sl"
	"github.com/magabrotheeeer/members-console/internal/models"
)

// Service описывает вход пользователя во внешнем API.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
}

// TokenParser проверяет токен, выданный API.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// CookieConfig параметры cookie сессии.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис входа через внешний API
	parser   TokenParser         // Проверка подписи полученного токена
	cookie   CookieConfig        // Параметры cookie сессии
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, parser TokenParser, cookie CookieConfig) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		parser:   parser,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в консоль
// @Description Проверяет email и пароль во внешнем API и устанавливает cookie сессии.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.Credentials true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("all fields are validated")

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrNotFound) {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("api unavailable"))
		return
	}

	claims, err := h.parser.ParseToken(session.Token)
	if err != nil {
		log.Error("api returned a token that does not verify", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("invalid session token"))
		return
	}

	cookie := &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims.ExpiresAt != nil {
		cookie.Expires = claims.ExpiresAt.Time
		cookie.MaxAge = int(time.Until(claims.ExpiresAt.Time).Seconds())
	}
	http.SetCookie(w, cookie)

	log.Info("login success", slog.String("user_id", claims.User()))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_id": claims.User(),
	}))
}
