package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/evgeniy-krivenko/notes-web/internal/ctxauth"
	"github.com/evgeniy-krivenko/notes-web/pkg/authtoken"
)

type tokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// requireAuth resolves the bearer token into a user id in the request
// context. Requests without a valid token never reach the handler.
func requireAuth(verifier tokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(r.Context(), w, authtoken.ErrInvalidToken)
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			respondError(r.Context(), w, authtoken.ErrInvalidToken)
			return
		}

		next(w, r.WithContext(ctxauth.WithUserID(r.Context(), userID)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}

	return token, true
}
