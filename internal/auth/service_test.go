package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/miguelantunes/partnerflow-backend/pkg/auth"
	"github.com/miguelantunes/partnerflow-backend/pkg/auth/session"
	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.AdminUser
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubSessionManager struct {
	refreshToken string
	rotateErr    error
	revoked      []string
	generated    []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return session.NewAccessID(), s.refreshToken + "-rotated", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "secret",
		Issuer:     "partnerflow",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

func buildTestService(t *testing.T, user *models.AdminUser) (Service, *stubSessionManager) {
	t.Helper()
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(stubUserRepo{user: user}, sessions, testJWTConfig(), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, sessions
}

func testAdminUser(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	hash := mustHashPassword(t, password)
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         "Admin",
		Role:         enums.AdminRoleManager,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestLoginIssuesSession(t *testing.T) {
	password := "correct-horse"
	user := testAdminUser(t, password)
	svc, sessions := buildTestService(t, user)

	dto, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if dto.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token, got %q", dto.RefreshToken)
	}
	if dto.User.ID != user.ID || dto.User.Role != enums.AdminRoleManager {
		t.Fatalf("unexpected user projection %+v", dto.User)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), dto.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user claim %s, got %s", user.ID, claims.UserID)
	}
	if len(sessions.generated) != 1 || sessions.generated[0] != claims.ID {
		t.Fatalf("session must be keyed by the token jti, got %v", sessions.generated)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	user := testAdminUser(t, "correct-horse")
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "battery-staple"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", code)
	}
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "anything"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", code)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	password := "correct-horse"
	user := testAdminUser(t, password)
	svc, _ := buildTestService(t, user)

	initial, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  initial.AccessToken,
		RefreshToken: initial.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.AccessToken == initial.AccessToken {
		t.Fatal("expected a new access token")
	}
	if refreshed.RefreshToken != "refresh-token-rotated" {
		t.Fatalf("expected rotated refresh token, got %q", refreshed.RefreshToken)
	}
}

func TestRefreshRejectsInvalidRefreshToken(t *testing.T) {
	password := "correct-horse"
	user := testAdminUser(t, password)
	sessions := &stubSessionManager{refreshToken: "refresh-token", rotateErr: session.ErrInvalidRefreshToken}
	svc, err := NewService(stubUserRepo{user: user}, sessions, testJWTConfig(), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	initial := mustMintToken(t, user)
	_, err = svc.Refresh(context.Background(), RefreshInput{AccessToken: initial, RefreshToken: "stolen"})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	user := testAdminUser(t, "correct-horse")
	svc, sessions := buildTestService(t, user)

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-123" {
		t.Fatalf("expected session revoked, got %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func mustMintToken(t *testing.T, user *models.AdminUser) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
