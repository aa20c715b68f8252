package httpx

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const sessionCookie = "azhar_session"

// sessionID returns the shopper's session id, minting a cookie on first
// contact. The id keys the in-memory cart; losing the cookie loses the cart.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
	})
	return id
}
