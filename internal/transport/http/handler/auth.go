package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/transport/http/middleware"
	"github.com/ErlanBelekov/art-marketplace/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, role domain.Role, email, password string) (*usecase.AuthResult, error)
	ResolveIdentity(ctx context.Context, rawToken string) (*usecase.ResolvedIdentity, error)
}

// profileListings populates the id sets of a profile.
type profileListings interface {
	Owned(ctx context.Context, identity *domain.Identity) ([]*domain.Listing, error)
	Saved(ctx context.Context, identity *domain.Identity) ([]*domain.Listing, error)
}

type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

// AuthHandler serves the account routes of one role. The role name doubles
// as the response key: {"artist": ...} or {"user": ...}.
type AuthHandler struct {
	authUsecase authUsecaser
	listings    profileListings
	role        domain.Role
	cookie      CookieConfig
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, listings profileListings, role domain.Role, cookie CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		listings:    listings,
		role:        role,
		cookie:      cookie,
		logger:      logger.With("component", "auth_handler", "role", string(role)),
	}
}

type registerRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=5,max=72"`
	Fullname struct {
		FirstName string `json:"firstname" binding:"required,min=3"`
		LastName  string `json:"lastname"`
	} `json:"fullname"`
	Phone      string `json:"phone"`
	City       string `json:"city"`
	ProfilePic string `json:"profilePic"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,min=5"`
	Password string `json:"password" binding:"required,min=5"`
}

// POST /artist/register, POST /user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if h.role == domain.RoleArtist && len(strings.TrimSpace(req.City)) < 2 {
		writeError(c, h.logger, "register", domain.NewValidationError("city", "must be at least 2 characters"))
		return
	}

	res, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Role:       h.role,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.Fullname.FirstName,
		LastName:   req.Fullname.LastName,
		Phone:      req.Phone,
		City:       req.City,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		writeError(c, h.logger, "register", err)
		return
	}

	h.setTokenCookie(c, res.Token)
	c.JSON(http.StatusCreated, gin.H{string(h.role): newIdentityResponse(res.Identity), "token": res.Token})
}

// POST /artist/login, POST /user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), h.role, req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, "login", err)
		return
	}

	h.setTokenCookie(c, res.Token)
	c.JSON(http.StatusOK, gin.H{string(h.role): newIdentityResponse(res.Identity), "token": res.Token})
}

// GET /artist/logout, GET /user/logout
// Tokens are stateless, so logging out only drops the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged Out"})
}

// GET /artist/getArtist, GET /user/getUser
func (h *AuthHandler) Profile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, h.logger, "profile", domain.ErrUnauthorized)
		return
	}

	resp := populatedIdentityResponse{identityResponse: newIdentityResponse(identity)}
	switch identity.Role {
	case domain.RoleArtist:
		owned, err := h.listings.Owned(c.Request.Context(), identity)
		if err != nil {
			writeError(c, h.logger, "list owned listings", err)
			return
		}
		resp.Arts = newListingResponses(owned)
	case domain.RoleUser:
		saved, err := h.listings.Saved(c.Request.Context(), identity)
		if err != nil {
			writeError(c, h.logger, "list saved listings", err)
			return
		}
		resp.Saved = newListingResponses(saved)
	}

	c.JSON(http.StatusOK, gin.H{string(h.role): resp})
}

// GET /artist/loggedIn
// Works for either role; the caller learns which kind of account the token belongs to.
func (h *AuthHandler) LoggedIn(c *gin.Context) {
	resolved, err := h.authUsecase.ResolveIdentity(c.Request.Context(), middleware.TokenFromRequest(c))
	if err != nil {
		writeError(c, h.logger, "resolve identity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": resolved.Role, string(resolved.Role): newIdentityResponse(resolved.Identity)})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}
