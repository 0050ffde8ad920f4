package service

import (
	"context"
	"testing"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/pkg/hash"
	"github.com/nichestudioai/aibnb-superhost/pkg/token"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubHostRepo 是 HostRepository 的内存实现，按邮箱索引。
type stubHostRepo struct {
	hosts  map[string]*model.Host
	nextID uint
}

func newStubHostRepo() *stubHostRepo {
	return &stubHostRepo{hosts: make(map[string]*model.Host)}
}

func (s *stubHostRepo) Create(host *model.Host) error {
	s.nextID++
	host.ID = s.nextID
	s.hosts[host.Email] = host
	return nil
}

func (s *stubHostRepo) FindByEmail(email string) (*model.Host, error) {
	if host, ok := s.hosts[email]; ok {
		return host, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubHostRepo) FindByID(hostID uint) (*model.Host, error) {
	for _, host := range s.hosts {
		if host.ID == hostID {
			return host, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubHostRepo) Update(host *model.Host) error {
	s.hosts[host.Email] = host
	return nil
}

func newTestHostService(repo *stubHostRepo) HostService {
	jwtManager := token.NewJWTManager("test-secret", 1, 7)
	return NewHostService(repo, jwtManager, nil)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubHostRepo()
	svc := newTestHostService(repo)

	host, err := svc.Register("Alice", "alice@example.com", "", "supersecret")

	require.NoError(t, err)
	require.NotEqual(t, "supersecret", host.Password)
	require.True(t, hash.CheckPasswordHash("supersecret", host.Password))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubHostRepo()
	svc := newTestHostService(repo)

	_, err := svc.Register("Alice", "alice@example.com", "", "supersecret")
	require.NoError(t, err)

	_, err = svc.Register("Bob", "alice@example.com", "", "othersecret")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	repo := newStubHostRepo()
	svc := newTestHostService(repo)

	registered, err := svc.Register("Alice", "alice@example.com", "", "supersecret")
	require.NoError(t, err)

	pair, host, err := svc.Login(context.Background(), "alice@example.com", "supersecret")
	require.NoError(t, err)
	require.Equal(t, registered.ID, host.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// access token 能被同一套密钥验证，并携带房东身份
	jwtManager := token.NewJWTManager("test-secret", 1, 7)
	claims, err := jwtManager.VerifyToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.HostID)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubHostRepo()
	svc := newTestHostService(repo)

	_, err := svc.Register("Alice", "alice@example.com", "", "supersecret")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestHostService(newStubHostRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	repo := newStubHostRepo()
	svc := newTestHostService(repo)

	_, err := svc.Register("Alice", "alice@example.com", "", "supersecret")
	require.NoError(t, err)
	pair, _, err := svc.Login(context.Background(), "alice@example.com", "supersecret")
	require.NoError(t, err)

	newPair, err := svc.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, newPair.AccessToken)
	require.NotEmpty(t, newPair.RefreshToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := newTestHostService(newStubHostRepo())

	_, err := svc.RefreshToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
