package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sheet-analytics/internal/config"
	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

// memUserRepo is an in-memory Credential Store honoring email uniqueness.
type memUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.nextID++
	user.ID = "u" + strconv.Itoa(m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	m.byID[user.ID] = &clone
	m.byEmail[user.Email] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) List(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(m.byID))
	for _, user := range m.byID {
		out = append(out, user)
	}
	return out, nil
}

func (m *memUserRepo) Count(context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	repo := newMemUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "service-secret",
			AccessTokenTTLHour: 24,
			BcryptCost:         4,
			AdminSignupCode:    "let-me-in",
		},
	}
	svc := NewAuthService(cfg, AuthDependencies{
		UserRepo: repo,
		Logger:   zap.NewNop(),
	})
	return svc, repo
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	svc, repo := newAuthFixture(t)

	user, token, exp, err := svc.Register(context.Background(), RegisterInput{
		Name:     "A",
		Email:    "A@X.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, exp.After(time.Now().Add(23*time.Hour)))

	require.Equal(t, "a@x.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.Equal(t, domain.UserStatusActive, user.Status)

	stored := repo.byEmail["a@x.com"]
	require.NotNil(t, stored)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.False(t, strings.Contains(stored.PasswordHash, "secret1"))

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.SubjectID())
	require.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegister_DuplicateLeavesFirstRecordUnchanged(t *testing.T) {
	t.Parallel()

	svc, repo := newAuthFixture(t)

	first, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)
	originalHash := repo.byID[first.ID].PasswordHash

	_, token, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "B", Email: "a@x.com", Password: "another1",
	})
	require.Error(t, err)
	require.Equal(t, "DUPLICATE_IDENTITY", errCode(t, err))
	require.Empty(t, token)

	// The first record survives untouched.
	require.Equal(t, originalHash, repo.byID[first.ID].PasswordHash)
	require.Equal(t, "A", repo.byID[first.ID].Name)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"empty name", RegisterInput{Name: " ", Email: "a@x.com", Password: "secret1"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterInput{Name: "A", Email: "a@x.com", Password: "pw123"}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "root"}},
		{"admin without code", RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "admin"}},
		{"admin wrong code", RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1", Role: "admin", AdminCode: "nope"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, token, _, err := svc.Register(ctx, tc.input)
			require.Error(t, err)
			require.Equal(t, "VALIDATION_FAILED", errCode(t, err))
			require.Empty(t, token)
		})
	}
}

func TestRegister_AdminWithCode(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	user, token, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Root", Email: "root@x.com", Password: "secret1",
		Role: "admin", AdminCode: "let-me-in",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, user.Role)

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLogin_SuccessAndRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	registered, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "A@x.COM", "secret1")
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.SubjectID())
}

func TestLogin_UnknownAndWrongPasswordAreIndistinguishable(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t)

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, _, _, unknownErr := svc.Login(context.Background(), "ghost@x.com", "secret1")
	_, _, _, wrongErr := svc.Login(context.Background(), "a@x.com", "wrong")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	// Same code, message and status for both failure modes.
	var unknownDomain, wrongDomain *apperrors.DomainError
	require.ErrorAs(t, unknownErr, &unknownDomain)
	require.ErrorAs(t, wrongErr, &wrongDomain)
	require.Equal(t, unknownDomain.Code, wrongDomain.Code)
	require.Equal(t, unknownDomain.Message, wrongDomain.Message)
	require.Equal(t, unknownDomain.HTTPStatus, wrongDomain.HTTPStatus)
	require.Equal(t, 401, wrongDomain.HTTPStatus)
}
