package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/users"
	pkgauth "github.com/angelmondragon/markethub-backend/pkg/auth"
	"github.com/angelmondragon/markethub-backend/pkg/config"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	created *models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: map[string]*models.User{}}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		FullName:     dto.FullName,
		Phone:        dto.Phone,
		IsActive:     true,
	}
	s.byEmail[dto.Email] = user
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "markethub-test",
		ExpirationMinutes: 30,
	}
}

func newAuthTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:          repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
		Now:            func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		Email:    email,
		Password: "Secret123!",
		FullName: "Jamie Rivera",
	}
}

func TestRegisterMintsTokenForNewUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo)

	resp, err := svc.Register(context.Background(), sampleRegisterRequest("New@Example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "new@example.com" {
		t.Fatalf("email = %q, want lowered", resp.User.Email)
	}
	if repo.created == nil || repo.created.PasswordHash == "Secret123!" {
		t.Fatal("password must be stored hashed")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != repo.created.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID, repo.created.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, sampleRegisterRequest("dupe@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, sampleRegisterRequest("dupe@example.com"))
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("code = %s, want conflict", pkgerrors.As(err).Code())
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthTestService(t, newStubUserRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = "" }},
		{"malformed email", func(r *RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"short name", func(r *RegisterRequest) { r.FullName = "ab" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleRegisterRequest("valid@example.com")
			tc.mutate(&req)
			_, err := svc.Register(ctx, req)
			if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("code = %s, want validation", pkgerrors.As(err).Code())
			}
		})
	}
}

func TestLoginVerifiesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, sampleRegisterRequest("login@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "login@example.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("code = %s, want unauthorized", pkgerrors.As(err).Code())
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthTestService(t, newStubUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("code = %s, want unauthorized", pkgerrors.As(err).Code())
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, sampleRegisterRequest("inactive@example.com")); err != nil {
		t.Fatalf("register: %v", err)
	}
	repo.created.IsActive = false

	_, err := svc.Login(ctx, LoginRequest{Email: "inactive@example.com", Password: "Secret123!"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("code = %s, want unauthorized", pkgerrors.As(err).Code())
	}
}
