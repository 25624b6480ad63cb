package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	GetUserByID(ctx context.Context, userID uint64) (*dto.UserDTO, error)
	ChangePassword(ctx context.Context, userID uint64, payload dto.ChangePasswordDTO) error
	ChangeMail(ctx context.Context, userID uint64, payload dto.ChangeMailDTO) error
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	recorder   metrics.Recorder
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	recorder metrics.Recorder,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		recorder:   recorder,
		logger:     logger,
		cfg:        cfg,
	}
}

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

func toUserDTO(user *entities.User) *dto.UserDTO {
	res := &dto.UserDTO{ID: user.ID, Mail: user.Mail}
	if user.CreatedAt != nil {
		res.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return res
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.UserDTO, error) {
	mail := normalizeMail(payload.Mail)

	if _, err := s.userRepo.FindByMail(ctx, mail); err == nil {
		return nil, apperrors.ErrEmailAlreadyUsed
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, mail, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("nouvel utilisateur enregistré", zap.Uint64("userID", user.ID))
	return toUserDTO(user), nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	mail := normalizeMail(payload.Mail)
	logger := s.logger.With(zap.String("mail", mail))

	if err := s.checkLockout(ctx, mail); err != nil {
		logger.Warn("connexion refusée : compte verrouillé")
		s.recorder.LoginAttempt("locked")
		return nil, err
	}

	user, err := s.userRepo.FindByMail(ctx, mail)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.handleFailedLoginAttempt(ctx, mail)
			s.recorder.LoginAttempt("failure")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		logger.Warn("mot de passe incorrect")
		s.handleFailedLoginAttempt(ctx, mail)
		s.recorder.LoginAttempt("failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.resetLoginAttempts(ctx, mail)

	token, err := s.jwtService.GenerateToken(user.ID, user.Mail)
	if err != nil {
		return nil, fmt.Errorf("génération du token: %w", err)
	}

	s.recorder.LoginAttempt("success")
	logger.Info("utilisateur connecté", zap.Uint64("userID", user.ID))
	return &dto.AuthResponseDTO{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.UserPublicDTO{ID: user.ID, Mail: user.Mail},
	}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, payload dto.ChangePasswordDTO) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(user.Password, payload.OldPassword); err != nil {
		return apperrors.ErrWrongPassword
	}

	hash, err := utils.HashPassword(payload.NewPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.logger.Info("mot de passe modifié", zap.Uint64("userID", userID))
	return nil
}

func (s *AuthService) ChangeMail(ctx context.Context, userID uint64, payload dto.ChangeMailDTO) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		return apperrors.ErrWrongPassword
	}

	newMail := normalizeMail(payload.NewMail)
	if newMail == user.Mail {
		return nil
	}
	existing, err := s.userRepo.FindByMail(ctx, newMail)
	if err == nil && existing.ID != userID {
		return apperrors.ErrEmailAlreadyUsed
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	if err := s.userRepo.UpdateMail(ctx, userID, newMail); err != nil {
		return err
	}
	s.logger.Info("email modifié", zap.Uint64("userID", userID))
	return nil
}

func lockoutKeys(mail string) (attemptsKey, lockoutKey string) {
	return "login_attempts:" + mail, "lockout:" + mail
}

func (s *AuthService) checkLockout(ctx context.Context, mail string) error {
	_, lockoutKey := lockoutKeys(mail)
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrAccountLocked
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("cache indisponible, verrouillage non vérifié", zap.Error(err))
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, mail string) {
	attemptsKey, lockoutKey := lockoutKeys(mail)
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("impossible de compter l'échec de connexion", zap.Error(err))
		return
	}
	if attempts == 1 {
		_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if s.cfg.MaxLoginAttempts > 0 && attempts >= int64(s.cfg.MaxLoginAttempts) {
		s.logger.Warn("compte verrouillé après trop d'échecs",
			zap.String("mail", mail), zap.Int64("tentatives", attempts))
		_ = s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		_ = s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, mail string) {
	attemptsKey, lockoutKey := lockoutKeys(mail)
	if err := s.cacheRepo.Del(ctx, attemptsKey, lockoutKey); err != nil {
		s.logger.Debug("remise à zéro des tentatives impossible", zap.Error(err))
	}
}
