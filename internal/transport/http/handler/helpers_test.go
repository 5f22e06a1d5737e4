package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var (
	artist = &domain.Identity{ID: "artist-1", Email: "ada@example.com", Role: domain.RoleArtist, FirstName: "Ada", City: "Paris", OwnedListingIDs: []string{"l-1"}}
	other  = &domain.Identity{ID: "artist-2", Email: "bob@example.com", Role: domain.RoleArtist, FirstName: "Bob"}
	user   = &domain.Identity{ID: "user-1", Email: "cy@example.com", Role: domain.RoleUser, FirstName: "Cyd"}
)

// bearerAuth maps "Bearer <identity id>" to the identity with that id.
type bearerAuth map[string]*domain.Identity

func (b bearerAuth) Authenticate(_ context.Context, raw string) (*domain.Identity, error) {
	if id, ok := b[raw]; ok {
		return id, nil
	}
	return nil, domain.ErrUnauthorized
}

func authMiddleware() gin.HandlerFunc {
	return middleware.Auth(bearerAuth{artist.ID: artist, other.ID: other, user.ID: user}, discard)
}

func jsonRequest(method, path, body, bearer string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}
