package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"inventory-system/config"
	apperrors "inventory-system/pkg/errors"
)

// ValidateFile contrôle l'extension, la taille et le type détecté du fichier selon les
// règles du contexte d'upload. Le curseur du fichier est remis à zéro en sortie.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("contexte d'upload inconnu: %s", contextName)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !slices.Contains(rules.AllowedExtensions, ext) {
		return apperrors.NewBadRequestError(
			fmt.Sprintf("Format de fichier non supporté. Formats acceptés : %s", strings.Join(rules.AllowedExtensions, ", ")))
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return apperrors.NewBadRequestError(
				fmt.Sprintf("La taille du fichier (%d Ko) dépasse la limite de %d Mo", fileHeader.Size/1024, rules.MaxSizeMB))
		}
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return fmt.Errorf("impossible de lire le fichier pour en déterminer le type: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("impossible de réinitialiser le curseur du fichier: %w", err)
	}

	for m := mtype; m != nil; m = m.Parent() {
		if slices.Contains(rules.AllowedMimeTypes, m.String()) {
			return nil
		}
	}
	return apperrors.NewBadRequestError(fmt.Sprintf("Type de fichier non autorisé: %s", mtype.String()))
}
