package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	authenticate func(ctx context.Context, raw string) (*domain.Identity, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, raw string) (*domain.Identity, error) {
	return f.authenticate(ctx, raw)
}

// tokenAuth accepts exactly one token per identity.
func tokenAuth(tokens map[string]*domain.Identity) *fakeAuthenticator {
	return &fakeAuthenticator{authenticate: func(_ context.Context, raw string) (*domain.Identity, error) {
		if id, ok := tokens[raw]; ok {
			return id, nil
		}
		return nil, domain.ErrUnauthorized
	}}
}

var (
	artist = &domain.Identity{ID: "artist-1", Role: domain.RoleArtist}
	user   = &domain.Identity{ID: "user-1", Role: domain.RoleUser}
)

// newEngine protects GET /protected with Auth and GET /artists-only with Auth + RequireRole(artist).
// Handlers write the stored identity's id so we can assert it was set.
func newEngine(authn middleware.Authenticator) *gin.Engine {
	logger := slog.Default()
	r := gin.New()
	echo := func(c *gin.Context) {
		identity, _ := middleware.IdentityFrom(c)
		c.String(http.StatusOK, "%s", identity.ID)
	}
	r.GET("/protected", middleware.Auth(authn, logger), echo)
	r.GET("/artists-only", middleware.Auth(authn, logger), middleware.RequireRole(domain.RoleArtist), echo)
	return r
}

func do(r http.Handler, path string, setup func(*http.Request)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if setup != nil {
		setup(req)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingToken_Returns401(t *testing.T) {
	w := do(newEngine(tokenAuth(nil)), "/protected", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	authn := tokenAuth(map[string]*domain.Identity{"good": artist})
	w := do(newEngine(authn), "/protected", func(r *http.Request) {
		r.Header.Set("Authorization", "Basic good")
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_BearerToken_PassesAndStoresIdentity(t *testing.T) {
	authn := tokenAuth(map[string]*domain.Identity{"good": artist})
	w := do(newEngine(authn), "/protected", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good")
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != artist.ID {
		t.Errorf("body = %q, want %q", got, artist.ID)
	}
}

func TestAuth_CookieToken_Passes(t *testing.T) {
	authn := tokenAuth(map[string]*domain.Identity{"good": artist})
	w := do(newEngine(authn), "/protected", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "good"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAuth_AuthenticatorFailure_Returns500(t *testing.T) {
	authn := &fakeAuthenticator{authenticate: func(context.Context, string) (*domain.Identity, error) {
		return nil, errors.New("db down")
	}}
	w := do(newEngine(authn), "/protected", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer anything")
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	authn := tokenAuth(map[string]*domain.Identity{"user-token": user})
	w := do(newEngine(authn), "/artists-only", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer user-token")
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireRole_MatchingRole_Passes(t *testing.T) {
	authn := tokenAuth(map[string]*domain.Identity{"artist-token": artist})
	w := do(newEngine(authn), "/artists-only", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer artist-token")
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
