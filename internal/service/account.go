package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/token"
)

// AccountService 注册与登录，签发访问 token
type AccountService struct {
	users    repository.UserRepository
	verifier *token.Verifier
	tokenTTL time.Duration
}

func NewAccountService(users repository.UserRepository, verifier *token.Verifier, tokenTTL time.Duration) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{users: users, verifier: verifier, tokenTTL: tokenTTL}
}

// AuthResult 注册/登录结果
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register 创建用户并签发 token，用户名已占用时返回 ErrUserExists
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}
	u, err := s.users.Create(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	tok, err := s.verifier.Sign(u.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: tok}, nil
}

// Login 校验密码并签发 token，用户不存在与密码错误统一返回 ErrUnauthorized
func (s *AccountService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	tok, err := s.verifier.Sign(u.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: tok}, nil
}
