package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/VEA-SchedulingService/internal/api/handlers"
	"github.com/m04kA/VEA-SchedulingService/internal/service/appointments/models"
)

// Заголовки идентификации, проставляемые API Gateway
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderCompanyID = "X-Company-ID"
)

type identityKey struct{}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth извлекает идентификацию пользователя из заголовков запроса
// и кладет ее в контекст. Запросы без корректного X-User-ID отклоняются
func Auth(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userIDStr := r.Header.Get(HeaderUserID)
			userID, err := strconv.ParseInt(userIDStr, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: missing or invalid %s header: %q", HeaderUserID, userIDStr)
				handlers.RespondUnauthorized(w, "пользователь не аутентифицирован")
				return
			}

			role := r.Header.Get(HeaderUserRole)
			if role != models.RoleClient && role != models.RoleManager {
				logger.Warn("Auth: invalid %s header: %q", HeaderUserRole, role)
				handlers.RespondUnauthorized(w, "некорректная роль пользователя")
				return
			}

			actor := models.Actor{UserID: userID, Role: role}

			// Менеджер обязан нести ID своей компании
			if role == models.RoleManager {
				companyIDStr := r.Header.Get(HeaderCompanyID)
				companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
				if err != nil || companyID <= 0 {
					logger.Warn("Auth: missing or invalid %s header for manager: %q", HeaderCompanyID, companyIDStr)
					handlers.RespondUnauthorized(w, "не указана компания менеджера")
					return
				}
				actor.CompanyID = &companyID
			}

			ctx := context.WithValue(r.Context(), identityKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext возвращает идентификацию пользователя из контекста
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(identityKey{}).(models.Actor)
	return actor, ok
}
