package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

// SeedAdmin crée le compte administrateur s'il n'existe pas encore.
func SeedAdmin(ctx context.Context, db *pgxpool.Pool, cfg *config.Config, mail, password string) error {
	mail = strings.ToLower(strings.TrimSpace(mail))
	if mail == "" || password == "" {
		return errors.New("ADMIN_MAIL et ADMIN_PASSWORD sont obligatoires")
	}

	userRepo := repositories.NewUserRepository(db, zap.NewNop())
	if _, err := userRepo.FindByMail(ctx, mail); err == nil {
		log.Printf("  - L'utilisateur %s existe déjà. Ignoré.", mail)
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	user, err := userRepo.CreateUser(ctx, mail, hash)
	if err != nil {
		return fmt.Errorf("création de l'administrateur: %w", err)
	}
	log.Printf("  - Administrateur %s créé (id %d).", user.Mail, user.ID)
	return nil
}
