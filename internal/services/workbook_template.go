package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Inventaire"

var templateRows = [][]interface{}{
	{"101", "Analamanga", "Antananarivo Renivohitra", "Antananarivo I", "Ordinateur Dell OptiPlex", "Fonctionnel", "Ordinateur", "", "", ""},
	{"", "", "", "", "Imprimante HP LaserJet", "Non fonctionnel", "Imprimante", "Toner épuisé", "Non", "HP 85A"},
	{"", "", "", "Antananarivo II", "Onduleur APC", "Fonctionnel", "Onduleur", "", "", ""},
	{"205", "Vakinankaratra", "Antsirabe I", "Antsirabe", "Scanner Canon", "En panne", "Scanner", "Câble défectueux", "Oui", ""},
}

// BuildTemplate produit un classeur d'exemple : en-têtes attendus et lignes dont les
// cellules de localisation vides héritent de la ligne précédente.
func BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, column := range WorkbookColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(templateSheet, cell, column); err != nil {
			f.Close()
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(WorkbookColumns))
	_ = f.SetCellStyle(templateSheet, "A1", fmt.Sprintf("%s1", lastCol), headerStyle)
	_ = f.SetColWidth(templateSheet, "A", lastCol, 22)

	for r, row := range templateRows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(templateSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
