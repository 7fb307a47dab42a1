package middleware

import (
	"strings"

	deliverycontext "tasker/internal/delivery/context"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerScheme = "bearer"

// AuthMiddleware authenticates requests carrying an access token.
type AuthMiddleware struct {
	tokens service.TokenService
	clock  service.Clock
}

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenService service.TokenService
	Clock        service.Clock
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: params.TokenService,
		clock:  params.Clock,
	}
}

// Authenticate verifies the Authorization header and stores the caller's
// account id on the request. Both "Bearer <token>" and a bare token are
// accepted; every failure is reported as the same 401.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return domainerrors.ErrInvalidToken
		}

		pid, err := m.tokens.Verify(token, m.clock.Now())
		if err != nil {
			return domainerrors.ErrInvalidToken
		}

		deliverycontext.SetAccountPID(c, pid)

		return next(c)
	}
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	scheme, rest, found := strings.Cut(header, " ")
	if found && strings.EqualFold(scheme, bearerScheme) {
		return strings.TrimSpace(rest)
	}
	if found {
		return ""
	}

	return header
}
