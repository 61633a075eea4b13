package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sheet-analytics/internal/domain"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	apperrors "github.com/spec-kit/sheet-analytics/pkg/util"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	getErr error
}

func (f *fakeUserRepo) Create(context.Context, *domain.User) error { return nil }
func (f *fakeUserRepo) Update(context.Context, *domain.User) error { return nil }
func (f *fakeUserRepo) List(context.Context) ([]*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Count(context.Context) (int64, error) { return 0, nil }
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newGuardFixture(t *testing.T, users ...*domain.User) (*Guard, *TokenManager, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	tm := NewTokenManager("guard-secret", time.Hour)
	return NewGuard(tm, repo), tm, repo
}

func activeUser(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:     id,
		Name:   "A",
		Email:  id + "@x.com",
		Role:   role,
		Status: domain.UserStatusActive,
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.HTTPStatus
}

func TestAuthorize_Success(t *testing.T) {
	t.Parallel()

	user := activeUser("u1", domain.RoleUser)
	guard, tm, _ := newGuardFixture(t, user)

	token, _, err := tm.Generate(user.ID, user.Role)
	require.NoError(t, err)

	principal, err := guard.Authorize(context.Background(), "Bearer "+token, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, user.ID, principal.ID)
	require.Equal(t, user.Name, principal.Name)
	require.Equal(t, user.Email, principal.Email)
	require.Equal(t, domain.RoleUser, principal.Role)
}

func TestAuthorize_MissingHeader(t *testing.T) {
	t.Parallel()

	guard, _, _ := newGuardFixture(t)

	_, err := guard.Authorize(context.Background(), "", domain.RoleUser)
	require.Equal(t, 401, httpStatus(t, err))
}

func TestAuthorize_MalformedToken(t *testing.T) {
	t.Parallel()

	guard, _, _ := newGuardFixture(t)

	_, err := guard.Authorize(context.Background(), "Bearer garbage", domain.RoleUser)
	require.Equal(t, 401, httpStatus(t, err))
}

func TestAuthorize_ExpiredToken(t *testing.T) {
	t.Parallel()

	user := activeUser("u1", domain.RoleUser)
	guard, _, repo := newGuardFixture(t, user)

	expiredIssuer := &TokenManager{secret: []byte("guard-secret"), ttl: -time.Minute}
	token, _, err := expiredIssuer.Generate(user.ID, user.Role)
	require.NoError(t, err)

	// Expiry is rejected before any store lookup.
	repo.getErr = errors.New("store must not be consulted")
	_, err = guard.Authorize(context.Background(), "Bearer "+token, domain.RoleUser)
	require.Equal(t, 401, httpStatus(t, err))
}

func TestAuthorize_UnknownUser(t *testing.T) {
	t.Parallel()

	guard, tm, _ := newGuardFixture(t)

	token, _, err := tm.Generate("ghost", domain.RoleUser)
	require.NoError(t, err)

	_, err = guard.Authorize(context.Background(), "Bearer "+token, domain.RoleUser)
	require.Equal(t, 401, httpStatus(t, err))
}

func TestAuthorize_InactiveAccountRevokesToken(t *testing.T) {
	t.Parallel()

	user := activeUser("u1", domain.RoleAdmin)
	guard, tm, _ := newGuardFixture(t, user)

	token, _, err := tm.Generate(user.ID, user.Role)
	require.NoError(t, err)

	// Deactivation after issuance takes effect on the very next check,
	// even though the token is still well signed and unexpired. Status
	// outranks role: an inactive admin gets 403 for inactivity.
	user.Status = domain.UserStatusInactive
	_, err = guard.Authorize(context.Background(), "Bearer "+token, domain.RoleAdmin)
	require.Equal(t, 403, httpStatus(t, err))

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "account is not active", domainErr.Message)
}

func TestAuthorize_RoleGating(t *testing.T) {
	t.Parallel()

	regular := activeUser("u1", domain.RoleUser)
	admin := activeUser("a1", domain.RoleAdmin)
	guard, tm, _ := newGuardFixture(t, regular, admin)

	userToken, _, err := tm.Generate(regular.ID, regular.Role)
	require.NoError(t, err)
	adminToken, _, err := tm.Generate(admin.ID, admin.Role)
	require.NoError(t, err)

	_, err = guard.Authorize(context.Background(), "Bearer "+userToken, domain.RoleAdmin)
	require.Equal(t, 403, httpStatus(t, err))

	principal, err := guard.Authorize(context.Background(), "Bearer "+adminToken, domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, principal.Role)

	// An admin passes a user-level guard.
	principal, err = guard.Authorize(context.Background(), "Bearer "+adminToken, domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, admin.ID, principal.ID)
}

func TestAuthorize_RoleFromLiveRecordNotClaims(t *testing.T) {
	t.Parallel()

	user := activeUser("u1", domain.RoleAdmin)
	guard, tm, _ := newGuardFixture(t, user)

	token, _, err := tm.Generate(user.ID, domain.RoleAdmin)
	require.NoError(t, err)

	// Demotion after issuance: the embedded admin claim does not help.
	user.Role = domain.RoleUser
	_, err = guard.Authorize(context.Background(), "Bearer "+token, domain.RoleAdmin)
	require.Equal(t, 403, httpStatus(t, err))
}

func TestAuthorize_StoreFailureIsNot401(t *testing.T) {
	t.Parallel()

	user := activeUser("u1", domain.RoleUser)
	guard, tm, repo := newGuardFixture(t, user)

	token, _, err := tm.Generate(user.ID, user.Role)
	require.NoError(t, err)

	repo.getErr = context.DeadlineExceeded
	_, err = guard.Authorize(context.Background(), "Bearer "+token, domain.RoleUser)
	require.Equal(t, 503, httpStatus(t, err))
}
