package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tiny-issue-tracker/internal/domain"
	"tiny-issue-tracker/internal/repository"
	"tiny-issue-tracker/internal/repository/mocks"
	"tiny-issue-tracker/internal/service"
)

const testJWTSecret = "test-secret-key"

func newAuthService(t *testing.T, users *mocks.UserRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(users, testJWTSecret, 24)
	require.NoError(t, err)
	return svc
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockUsers := new(mocks.UserRepository)
	svc := newAuthService(t, mockUsers)
	ctx := context.Background()

	mockUsers.On("FindByUsername", ctx, "alice").Return(&domain.User{
		ID: 2, Username: "alice", PasswordHash: hashPassword(t, "secret"),
	}, nil).Once()

	token, err := svc.Login(ctx, "alice", "secret")

	require.NoError(t, err)
	require.NotEmpty(t, token)

	// token 能用同一密钥解出，并带正确的 user_id
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(2), claims["user_id"])
	assert.Contains(t, claims, "exp")

	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_UsernameIsCaseInsensitive(t *testing.T) {
	mockUsers := new(mocks.UserRepository)
	svc := newAuthService(t, mockUsers)
	ctx := context.Background()

	// 查库前先转小写
	mockUsers.On("FindByUsername", ctx, "alice").Return(&domain.User{
		ID: 2, Username: "alice", PasswordHash: hashPassword(t, "secret"),
	}, nil).Once()

	token, err := svc.Login(ctx, "ALICE", "secret")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockUsers := new(mocks.UserRepository)
	svc := newAuthService(t, mockUsers)
	ctx := context.Background()

	mockUsers.On("FindByUsername", ctx, "alice").Return(&domain.User{
		ID: 2, Username: "alice", PasswordHash: hashPassword(t, "secret"),
	}, nil).Once()

	token, err := svc.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	assert.Empty(t, token)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	mockUsers := new(mocks.UserRepository)
	svc := newAuthService(t, mockUsers)
	ctx := context.Background()

	mockUsers.On("FindByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

	token, err := svc.Login(ctx, "ghost", "whatever")

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	assert.Empty(t, token)
}

func TestAuthService_Login_RepositoryErrorHiddenFromClient(t *testing.T) {
	mockUsers := new(mocks.UserRepository)
	svc := newAuthService(t, mockUsers)
	ctx := context.Background()

	mockUsers.On("FindByUsername", ctx, "alice").Return(nil, errors.New("connection refused")).Once()

	_, err := svc.Login(ctx, "alice", "secret")

	// 数据库故障不向客户端泄露，统一按认证失败处理
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := service.NewAuthService(new(mocks.UserRepository), "", 24)
	assert.Error(t, err)
}
