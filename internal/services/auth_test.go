package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/service"
)

type fakeUserRepo struct {
	users  []*entities.User
	nextID uint64
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, mail, passwordHash string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Mail == mail {
			return nil, apperrors.ErrEmailAlreadyUsed
		}
	}
	r.nextID++
	now := time.Now()
	u := &entities.User{ID: r.nextID, Mail: mail, Password: passwordHash}
	u.CreatedAt = &now
	r.users = append(r.users, u)
	return u, nil
}

func (r *fakeUserRepo) FindByMail(ctx context.Context, mail string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Mail == mail {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, newPasswordHash string) error {
	u, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.Password = newPasswordHash
	return nil
}

func (r *fakeUserRepo) UpdateMail(ctx context.Context, userID uint64, newMail string) error {
	u, err := r.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u.Mail = newMail
	return nil
}

type AuthServiceTestSuite struct {
	suite.Suite
	repo  *fakeUserRepo
	cache *memCache
	jwt   service.JWTService
	svc   AuthServiceInterface
	ctx   context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.repo = &fakeUserRepo{}
	s.cache = newMemCache()
	s.jwt = service.NewJWTService("secret-de-test", time.Hour, zap.NewNop())
	s.ctx = context.Background()
	s.svc = NewAuthService(s.repo, s.cache, s.jwt, metrics.NewNoopRecorder(), zap.NewNop(), &config.AuthConfig{
		MaxLoginAttempts: 3,
		LockoutDuration:  15 * time.Minute,
		BcryptCost:       bcrypt.MinCost,
	})
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) register(mail, password string) *dto.UserDTO {
	user, err := s.svc.Register(s.ctx, dto.RegisterDTO{Mail: mail, Password: password})
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceTestSuite) TestRegister() {
	user := s.register("  Agent@Example.org ", "secret1")
	s.Equal("agent@example.org", user.Mail)
	s.NotEmpty(user.CreatedAt)
	s.NotEqual("secret1", s.repo.users[0].Password)

	_, err := s.svc.Register(s.ctx, dto.RegisterDTO{Mail: "agent@example.org", Password: "autre123"})
	s.ErrorIs(err, apperrors.ErrEmailAlreadyUsed)
}

func (s *AuthServiceTestSuite) TestLogin() {
	user := s.register("agent@example.org", "secret1")

	res, err := s.svc.Login(s.ctx, dto.LoginDTO{Mail: "AGENT@example.org", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal("bearer", res.TokenType)
	s.Equal(user.ID, res.User.ID)

	claims, err := s.jwt.ValidateToken(res.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.UserID)
	s.Equal("agent@example.org", claims.Email)
}

func (s *AuthServiceTestSuite) TestLogin_InvalidCredentials() {
	s.register("agent@example.org", "secret1")

	_, err := s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "mauvais"})
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)

	_, err = s.svc.Login(s.ctx, dto.LoginDTO{Mail: "inconnu@example.org", Password: "secret1"})
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_LockoutAfterRepeatedFailures() {
	s.register("agent@example.org", "secret1")

	for i := 0; i < 3; i++ {
		_, err := s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "mauvais"})
		s.ErrorIs(err, apperrors.ErrInvalidCredentials)
	}
	s.Contains(s.cache.data, "lockout:agent@example.org")
	s.NotContains(s.cache.data, "login_attempts:agent@example.org")

	// le bon mot de passe est refusé tant que le verrou est posé
	_, err := s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "secret1"})
	s.ErrorIs(err, apperrors.ErrAccountLocked)
}

func (s *AuthServiceTestSuite) TestLogin_SuccessResetsAttempts() {
	s.register("agent@example.org", "secret1")

	_, err := s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "mauvais"})
	s.Require().Error(err)
	s.Equal("1", s.cache.data["login_attempts:agent@example.org"])
	s.Equal(15*time.Minute, s.cache.ttls["login_attempts:agent@example.org"])

	_, err = s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "secret1"})
	s.Require().NoError(err)
	s.NotContains(s.cache.data, "login_attempts:agent@example.org")
}

func (s *AuthServiceTestSuite) TestChangePassword() {
	user := s.register("agent@example.org", "secret1")

	err := s.svc.ChangePassword(s.ctx, user.ID, dto.ChangePasswordDTO{OldPassword: "faux", NewPassword: "nouveau1"})
	s.ErrorIs(err, apperrors.ErrWrongPassword)

	s.Require().NoError(s.svc.ChangePassword(s.ctx, user.ID, dto.ChangePasswordDTO{OldPassword: "secret1", NewPassword: "nouveau1"}))
	_, err = s.svc.Login(s.ctx, dto.LoginDTO{Mail: "agent@example.org", Password: "nouveau1"})
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestChangeMail() {
	user := s.register("agent@example.org", "secret1")
	s.register("autre@example.org", "secret2")

	err := s.svc.ChangeMail(s.ctx, user.ID, dto.ChangeMailDTO{NewMail: "autre@example.org", Password: "secret1"})
	s.ErrorIs(err, apperrors.ErrEmailAlreadyUsed)

	err = s.svc.ChangeMail(s.ctx, user.ID, dto.ChangeMailDTO{NewMail: "neuf@example.org", Password: "faux"})
	s.ErrorIs(err, apperrors.ErrWrongPassword)

	s.Require().NoError(s.svc.ChangeMail(s.ctx, user.ID, dto.ChangeMailDTO{NewMail: "Neuf@Example.org", Password: "secret1"}))
	me, err := s.svc.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("neuf@example.org", me.Mail)
}

func TestGetUserByID_NotFound(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, newMemCache(), nil, metrics.NewNoopRecorder(), zap.NewNop(), &config.AuthConfig{})
	_, err := svc.GetUserByID(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
