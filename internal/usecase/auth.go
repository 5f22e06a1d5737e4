package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/email"
	"github.com/ErlanBelekov/art-marketplace/internal/metrics"
	"github.com/ErlanBelekov/art-marketplace/internal/repository"
	"github.com/ErlanBelekov/art-marketplace/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// Tokens is satisfied by *token.Service.
type Tokens interface {
	Issue(identityID string, role domain.Role) (string, error)
	Verify(raw string) (*token.Claims, error)
}

type AuthUsecase struct {
	identities repository.IdentityRepository
	tokens     Tokens
	email      email.Sender
	bcryptCost int
	logger     *slog.Logger

	// compared against when the email is unknown so both paths cost one bcrypt run
	dummyHash []byte
}

func NewAuthUsecase(identities repository.IdentityRepository, tokens Tokens, emailSender email.Sender, bcryptCost int, logger *slog.Logger) *AuthUsecase {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("no-such-identity"), bcryptCost)
	return &AuthUsecase{
		identities: identities,
		tokens:     tokens,
		email:      emailSender,
		bcryptCost: bcryptCost,
		logger:     logger.With("component", "auth_usecase"),
		dummyHash:  dummy,
	}
}

type RegisterInput struct {
	Role       domain.Role
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	City       string
	ProfilePic string
}

type AuthResult struct {
	Identity *domain.Identity
	Token    string
}

// Register hashes the password, stores the identity and returns it with a fresh token.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if !input.Role.Valid() {
		return nil, domain.NewValidationError("role", "must be user or artist")
	}
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if input.Password == "" {
		return nil, domain.NewValidationError("password", "is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), u.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password", "must be at most 72 bytes")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity, err := u.identities.Create(ctx, &domain.Identity{
		Email:        emailAddr,
		PasswordHash: string(hash),
		Role:         input.Role,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		City:         strings.TrimSpace(input.City),
		ProfilePic:   input.ProfilePic,
	})
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	signed, err := u.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(string(identity.Role)).Inc()
	u.sendWelcome(ctx, identity)

	return &AuthResult{Identity: identity, Token: signed}, nil
}

// Login checks the password of an identity registered under role.
// An unknown email, a role mismatch and a wrong password are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, role domain.Role, emailAddr, password string) (*AuthResult, error) {
	identity, err := u.identities.FindByEmail(ctx, normalizeEmail(emailAddr))
	switch {
	case errors.Is(err, domain.ErrIdentityNotFound):
		_ = bcrypt.CompareHashAndPassword(u.dummyHash, []byte(password))
		metrics.LoginsTotal.WithLabelValues(string(role), "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("find identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil || identity.Role != role {
		metrics.LoginsTotal.WithLabelValues(string(role), "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.Issue(identity.ID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues(string(role), "accepted").Inc()
	return &AuthResult{Identity: identity, Token: signed}, nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
// Any failure that is the caller's fault is reported as domain.ErrUnauthorized.
func (u *AuthUsecase) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthorized
	}

	claims, err := u.tokens.Verify(rawToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	identity, err := u.identities.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	// A token minted for one role never authenticates an identity of another.
	if claims.Role != "" && claims.Role != identity.Role {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

type ResolvedIdentity struct {
	Role     domain.Role
	Identity *domain.Identity
}

// ResolveIdentity reports which kind of account a token belongs to.
func (u *AuthUsecase) ResolveIdentity(ctx context.Context, rawToken string) (*ResolvedIdentity, error) {
	identity, err := u.Authenticate(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	return &ResolvedIdentity{Role: identity.Role, Identity: identity}, nil
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, identity *domain.Identity) {
	subject := "Welcome to the gallery"
	body := fmt.Sprintf(`<p>Hi %s,</p><p>your %s account is ready.</p>`, identity.FirstName, identity.Role)
	if err := u.email.Send(ctx, identity.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "identity_id", identity.ID, "error", err)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
