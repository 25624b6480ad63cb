package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"inventory-system/pkg/config"
	"inventory-system/pkg/database/postgresql"
	"inventory-system/seeders"
)

func main() {
	runAdmin := flag.Bool("admin", false, "Créer le compte administrateur (ADMIN_MAIL / ADMIN_PASSWORD)")
	templatePath := flag.String("template", "", "Écrire le classeur d'exemple à ce chemin")
	flag.Parse()

	if !*runAdmin && *templatePath == "" {
		log.Println("Aucune action demandée.")
		flag.PrintDefaults()
		log.Println("Exemples :")
		log.Println("  go run ./seeders/cmd/seed -admin")
		log.Println("  go run ./seeders/cmd/seed -template ./modele_inventaire.xlsx")
		return
	}

	if *templatePath != "" {
		if err := seeders.WriteTemplate(*templatePath); err != nil {
			log.Fatalf("Échec de l'écriture du modèle : %v", err)
		}
	}

	if *runAdmin {
		ctx := context.Background()
		cfg := config.New()
		dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, zap.NewNop())
		if err != nil {
			log.Fatalf("Connexion à la base impossible : %v", err)
		}
		defer dbPool.Close()

		if err := postgresql.Migrate(ctx, dbPool); err != nil {
			log.Fatalf("Échec des migrations : %v", err)
		}
		if err := seeders.SeedAdmin(ctx, dbPool, cfg, os.Getenv("ADMIN_MAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Fatalf("Échec du seeder administrateur : %v", err)
		}
	}
	log.Println("Terminé.")
}
