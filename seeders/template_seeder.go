package seeders

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"inventory-system/internal/services"
)

// WriteTemplate écrit le classeur d'exemple à l'emplacement demandé.
func WriteTemplate(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := services.BuildTemplate()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("écriture du modèle %s: %w", path, err)
	}
	log.Printf("  - Modèle écrit dans %s", path)
	return nil
}
