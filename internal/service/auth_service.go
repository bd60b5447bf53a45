package service

import (
	"context"
	"errors"
	"mapmyroute_backend/internal/config"
	"mapmyroute_backend/internal/identity"
	"mapmyroute_backend/internal/model"
	"mapmyroute_backend/internal/repository"
	"mapmyroute_backend/internal/util"
	"mapmyroute_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
	Verifier identity.TokenVerifier
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, verifier identity.TokenVerifier) *AuthService {
	if verifier == nil {
		verifier = identity.Disabled{}
	}
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Verifier: verifier,
	}
}

// swagger:model AuthUser
type AuthUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// swagger:model AuthResult
type AuthResult struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}

func (s *AuthService) Register(email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        &email,
		PasswordHash: string(hashedPassword),
		Name:         name,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	// Firebase 创建的账号没有密码
	if !user.HasPassword() {
		return nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: token,
		User:        AuthUser{ID: user.ID, Email: user.EmailAddress(), Name: user.Name},
	}, nil
}

// FirebaseLogin 校验 Firebase ID token 并返回对应的本地用户，不存在则创建
func (s *AuthService) FirebaseLogin(ctx context.Context, token string) (*model.User, error) {
	id, err := s.Verifier.Verify(ctx, token)
	if err != nil {
		return nil, util.ErrInvalidToken
	}
	return s.userForIdentity(id)
}

func (s *AuthService) userForIdentity(id *identity.Identity) (*model.User, error) {
	user, err := s.UserRepo.FindByUID(id.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 未验证的邮箱不可信：既不绑定已有账号，也不占用该邮箱
	email := ""
	if id.EmailVerified {
		email = id.Email
	}

	// 已验证邮箱与尚未绑定的账号相同时绑定 UID；已绑定其它 UID 时新建无邮箱用户
	if email != "" {
		existing, err := s.UserRepo.FindByEmail(email)
		switch {
		case err == nil && existing.UID != nil:
			email = ""
		case err == nil:
			uid := id.UID
			existing.UID = &uid
			if existing.Picture == "" {
				existing.Picture = id.Picture
			}
			if err := s.UserRepo.Update(existing); err != nil {
				return nil, err
			}
			return existing, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	uid := id.UID
	user = &model.User{
		UID:     &uid,
		Email:   model.NullableString(email),
		Name:    id.Name,
		Picture: id.Picture,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	logger.Log.Info("Created user from identity token", zap.Uint("user_id", user.ID))
	return user, nil
}

// ResolveToken 先按 Firebase ID token 校验，失败后再按本地签发的 JWT 校验
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if id, err := s.Verifier.Verify(ctx, token); err == nil {
		return s.userForIdentity(id)
	}

	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, util.ErrInvalidToken
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
