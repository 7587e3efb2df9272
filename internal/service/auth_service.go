package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"learnpack_backend/internal/config"
	"learnpack_backend/internal/model"
	"learnpack_backend/internal/repository"
	"learnpack_backend/internal/util"

	"gorm.io/gorm"
)

// IdentityClaims 外部身份服务返回的用户画像
type IdentityClaims struct {
	SubjectID       string `json:"sub"`
	Email           string `json:"email"`
	FirstName       string `json:"given_name"`
	LastName        string `json:"family_name"`
	ProfileImageURL string `json:"picture"`
}

// IdentityProvider 校验外部身份令牌并返回用户画像
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (*IdentityClaims, error)
}

// HTTPIdentityProvider 调用 OIDC userinfo 端点校验令牌
type HTTPIdentityProvider struct {
	UserinfoURL string
	Client      *http.Client
}

func NewHTTPIdentityProvider(cfg *config.Config) *HTTPIdentityProvider {
	return &HTTPIdentityProvider{
		UserinfoURL: cfg.Identity.UserinfoURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *HTTPIdentityProvider) Verify(ctx context.Context, token string) (*IdentityClaims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, util.ErrInvalidIdentity
	}

	var claims IdentityClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode identity claims: %w", err)
	}
	if claims.SubjectID == "" {
		return nil, util.ErrInvalidIdentity
	}
	return &claims, nil
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Identity IdentityProvider
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, identity IdentityProvider, cfg *config.Config) *AuthService {
	return &AuthService{UserRepo: userRepo, Identity: identity, Cfg: cfg}
}

// Login 校验外部身份令牌，落库用户画像并签发本服务 JWT
func (s *AuthService) Login(ctx context.Context, identityToken string) (string, *model.User, error) {
	claims, err := s.Identity.Verify(ctx, identityToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.UserRepo.Upsert(&model.User{
		ID:              claims.SubjectID,
		Email:           claims.Email,
		FirstName:       claims.FirstName,
		LastName:        claims.LastName,
		ProfileImageURL: claims.ProfileImageURL,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
