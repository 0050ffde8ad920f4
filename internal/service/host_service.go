// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/hash"
	"github.com/nichestudioai/aibnb-superhost/pkg/token"
	"gorm.io/gorm"
)

// 认证相关的哨兵错误。
var (
	// ErrEmailTaken 表示该邮箱已被注册。
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials 表示邮箱或密码不正确。
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// TokenPair 是一次登录或刷新返回的令牌对。
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// HostService 定义了房东账户相关的业务操作。
type HostService interface {
	Register(name, email, phone, password string) (*model.Host, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *model.Host, error)
	// Logout 将当前 access token 拉入黑名单，直至其自然过期。
	Logout(ctx context.Context, tokenString string) error
	RefreshToken(refreshToken string) (*TokenPair, error)
	GetProfile(hostID uint) (*model.Host, error)
	UpdateProfile(hostID uint, name, phone, city, state string) (*model.Host, error)
}

type hostService struct {
	hostRepo   repository.HostRepository
	jwtManager *token.JWTManager
	rdb        *redis.Client
}

// NewHostService 创建一个新的 HostService 实例。
// rdb 可以为 nil，此时登出只在客户端生效。
func NewHostService(hostRepo repository.HostRepository, jwtManager *token.JWTManager, rdb *redis.Client) HostService {
	return &hostService{hostRepo: hostRepo, jwtManager: jwtManager, rdb: rdb}
}

// Register 注册一个新的房东账户。
func (s *hostService) Register(name, email, phone, password string) (*model.Host, error) {
	_, err := s.hostRepo.FindByEmail(email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hashedPassword, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	host := &model.Host{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: hashedPassword,
	}
	if err := s.hostRepo.Create(host); err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}
	return host, nil
}

// Login 校验凭证并签发令牌对。
func (s *hostService) Login(ctx context.Context, email, password string) (*TokenPair, *model.Host, error) {
	host, err := s.hostRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !hash.CheckPasswordHash(password, host.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(host)
	if err != nil {
		return nil, nil, err
	}
	return pair, host, nil
}

// Logout 将 access token 写入 Redis 黑名单，TTL 对齐 token 的剩余有效期。
func (s *hostService) Logout(ctx context.Context, tokenString string) error {
	if s.rdb == nil {
		return nil
	}
	claims, err := s.jwtManager.VerifyToken(tokenString)
	if err != nil {
		// 无效或已过期的 token 无需拉黑
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, blacklistKey(tokenString), "1", ttl).Err()
}

// RefreshToken 用有效的 refresh token 换取新的令牌对。
func (s *hostService) RefreshToken(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	host, err := s.hostRepo.FindByID(claims.HostID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(host)
}

// GetProfile 返回房东的账户信息。
func (s *hostService) GetProfile(hostID uint) (*model.Host, error) {
	return s.hostRepo.FindByID(hostID)
}

// UpdateProfile 更新房东的基本信息。邮箱和密码不在此处修改。
func (s *hostService) UpdateProfile(hostID uint, name, phone, city, state string) (*model.Host, error) {
	host, err := s.hostRepo.FindByID(hostID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		host.Name = name
	}
	if phone != "" {
		host.Phone = phone
	}
	if city != "" {
		host.City = city
	}
	if state != "" {
		host.State = state
	}
	if err := s.hostRepo.Update(host); err != nil {
		return nil, err
	}
	return host, nil
}

func (s *hostService) issueTokens(host *model.Host) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateToken(host.ID, host.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(host.ID, host.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// blacklistKey 生成登出黑名单的缓存键，中间件据此拒绝已登出的 token。
func blacklistKey(tokenString string) string {
	return "jwt:blacklist:" + tokenString
}
