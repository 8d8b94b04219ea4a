package middleware

import (
	"context"
	"net/http"
	"strings"

	"mesa/infras/jwt"
	"mesa/infras/otel"
	"mesa/shared/constant"
	"mesa/shared/failure"
	"mesa/transport/http/response"
)

// Admin guards the catalog-mutation routes. Tokens are issued by the admin
// dashboard; this service only verifies them.
type Admin interface {
	Auth(next http.Handler) http.Handler
}

type adminMiddleware struct {
	jwtService jwt.JWT
	otel       otel.Otel
}

func NewAdminMiddleware(jwtService jwt.JWT, otel otel.Otel) Admin {
	return &adminMiddleware{
		jwtService: jwtService,
		otel:       otel,
	}
}

func (m *adminMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "admin.middleware")
		defer scope.End()

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.Unauthorized("missing authorization header")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			err := failure.Unauthorized("invalid authorization header format")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			unauthorized := failure.Unauthorized("token validation failed")
			scope.TraceError(err)
			response.WithError(writer, unauthorized)

			return
		}

		if claims.Role != constant.RoleAdmin {
			err := failure.Unauthorized("admin role required")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyAdminSubject, claims.Subject)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
