package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const userSelectFields = "id, mail, mot_de_passe, created_at, updated_at"

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, mail, passwordHash string) (*entities.User, error)
	FindByMail(ctx context.Context, mail string) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	UpdatePassword(ctx context.Context, userID uint64, newPasswordHash string) error
	UpdateMail(ctx context.Context, userID uint64, newMail string) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.ID, &user.Mail, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *UserRepository) CreateUser(ctx context.Context, mail, passwordHash string) (*entities.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (mail, mot_de_passe, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING %s`, userSelectFields)

	user, err := scanUser(r.storage.QueryRow(ctx, query, mail, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("création de l'utilisateur: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByMail(ctx context.Context, mail string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE LOWER(mail) = LOWER($1)", userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, mail))
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint64, newPasswordHash string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET mot_de_passe = $1, updated_at = NOW() WHERE id = $2", newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("mise à jour du mot de passe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateMail(ctx context.Context, userID uint64, newMail string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET mail = $1, updated_at = NOW() WHERE id = $2", newMail, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyUsed
		}
		return fmt.Errorf("mise à jour de l'email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
