package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"

	apperrors "inventory-system/pkg/errors"
)

const (
	colCode                 = "code"
	colRegion               = "region"
	colDistrict             = "district"
	colCommune              = "commune"
	colName                 = "nom_materiel"
	colState                = "etat_materiel"
	colType                 = "type_materiel"
	colReason               = "motif"
	colConsumablePurchased  = "achat_consommable"
	colConsumableCompatible = "compatibilite_consomm"
)

// WorkbookColumns est l'ordre des colonnes attendues, utilisé aussi par le modèle.
var WorkbookColumns = []string{
	colCode, colRegion, colDistrict, colCommune, colName,
	colState, colType, colReason, colConsumablePurchased, colConsumableCompatible,
}

var forwardFilledColumns = []string{colCode, colRegion, colDistrict, colCommune}

// ImportRow est une ligne de données typée. Row est le numéro de ligne dans la feuille
// (l'en-tête est la ligne 1).
type ImportRow struct {
	Row                  int
	Code                 null.String
	Region               null.String
	District             null.String
	Commune              null.String
	Name                 null.String
	State                null.String
	Type                 null.String
	Reason               null.String
	ConsumablePurchased  null.String
	ConsumableCompatible null.String
}

// workbookSchema associe chaque colonne connue à son index dans la feuille.
type workbookSchema map[string]int

func newWorkbookSchema(header []string) (workbookSchema, error) {
	schema := workbookSchema{}
	for idx, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := schema[name]; !dup {
			schema[name] = idx
		}
	}
	if _, ok := schema[colName]; !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Colonne obligatoire manquante : '%s'", colName),
			map[string]interface{}{"colonnes_attendues": WorkbookColumns},
		)
	}
	return schema, nil
}

func (s workbookSchema) cell(row []string, column string) string {
	idx, ok := s[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func nullIfBlank(v string) null.String {
	if v == "" {
		return null.String{}
	}
	return null.StringFrom(v)
}

// ReadWorkbook lit la première feuille du classeur et renvoie ses lignes de données après
// propagation des colonnes de localisation.
func ReadWorkbook(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewInvalidWorkbookError("Impossible de lire le fichier Excel", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewInvalidWorkbookError("Le classeur ne contient aucune feuille", nil)
	}

	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewInvalidWorkbookError("Impossible de lire la feuille Excel", err)
	}
	if len(grid) == 0 {
		return nil, apperrors.NewValidationError("Le fichier est vide", nil)
	}

	schema, err := newWorkbookSchema(grid[0])
	if err != nil {
		return nil, err
	}

	return buildRows(schema, grid[1:]), nil
}

// buildRows propage les colonnes de localisation puis convertit chaque ligne brute.
func buildRows(schema workbookSchema, data [][]string) []ImportRow {
	filled := forwardFill(schema, data)

	rows := make([]ImportRow, 0, len(data))
	for i, raw := range data {
		rows = append(rows, ImportRow{
			Row:                  i + 2,
			Code:                 nullIfBlank(filled[i][colCode]),
			Region:               nullIfBlank(filled[i][colRegion]),
			District:             nullIfBlank(filled[i][colDistrict]),
			Commune:              nullIfBlank(filled[i][colCommune]),
			Name:                 nullIfBlank(schema.cell(raw, colName)),
			State:                nullIfBlank(schema.cell(raw, colState)),
			Type:                 nullIfBlank(schema.cell(raw, colType)),
			Reason:               nullIfBlank(schema.cell(raw, colReason)),
			ConsumablePurchased:  nullIfBlank(schema.cell(raw, colConsumablePurchased)),
			ConsumableCompatible: nullIfBlank(schema.cell(raw, colConsumableCompatible)),
		})
	}
	return rows
}

// forwardFill : une cellule vide d'une colonne de localisation hérite de la dernière valeur
// non vide au-dessus d'elle dans la même colonne.
func forwardFill(schema workbookSchema, data [][]string) []map[string]string {
	out := make([]map[string]string, len(data))
	for i := range out {
		out[i] = make(map[string]string, len(forwardFilledColumns))
	}
	for _, column := range forwardFilledColumns {
		last := ""
		for i, raw := range data {
			if v := schema.cell(raw, column); v != "" {
				last = v
			}
			out[i][column] = last
		}
	}
	return out
}
