package utils

import (
	"math"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	StateFunctional    = "Fonctionnel"
	StateNonFunctional = "Non fonctionnel"
)

var stateMapping = map[string]string{
	"fonctionnel":      StateFunctional,
	"fonctionelle":     StateFunctional,
	"fonctionne":       StateFunctional,
	"ok":               StateFunctional,
	"non fonctionnel":  StateNonFunctional,
	"non fonctionelle": StateNonFunctional,
	"en panne":         StateNonFunctional,
	"panne":            StateNonFunctional,
	"hs":               StateNonFunctional,
	"hors service":     StateNonFunctional,
}

// NormalizeState ramène les variantes saisies dans les fichiers à l'un des deux libellés
// canoniques. Une valeur inconnue est renvoyée telle quelle (sans espaces en bordure).
func NormalizeState(state *string) *string {
	if state == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*state)
	if trimmed == "" {
		return nil
	}
	if canonical, ok := stateMapping[strings.ToLower(trimmed)]; ok {
		return &canonical
	}
	return &trimmed
}

// CalculatePercentage renvoie part/total en pourcentage arrondi à 2 décimales, 0 si total == 0.
func CalculatePercentage(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*100.0/float64(total)*100) / 100
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.-]`)
var spaces = regexp.MustCompile(`\s+`)

// SanitizeFilename retire les caractères non sûrs et limite la base à 100 caractères.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	filename = unsafeFilenameChars.ReplaceAllString(filename, "")
	filename = spaces.ReplaceAllString(filename, "_")
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name + ext
}
