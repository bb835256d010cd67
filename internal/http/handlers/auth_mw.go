package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type ctxKey string

const userKey ctxKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// AuthJWT resolves the bearer token to a user and stores it in the request
// context.
func AuthJWT(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				WriteError(w, r, http.StatusUnauthorized, "Not authenticated")
				return
			}

			u, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				WriteServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser is only called behind AuthJWT.
func currentUser(r *http.Request) models.User {
	u, _ := UserFromContext(r.Context())
	return u
}
