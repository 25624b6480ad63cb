package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalizeState(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"vide", strPtr("   "), nil},
		{"canonique", strPtr("Fonctionnel"), strPtr(StateFunctional)},
		{"minuscules et espaces", strPtr("  fonctionnel "), strPtr(StateFunctional)},
		{"en panne", strPtr("EN PANNE"), strPtr(StateNonFunctional)},
		{"hs", strPtr("HS"), strPtr(StateNonFunctional)},
		{"non fonctionnel", strPtr("non fonctionnel"), strPtr(StateNonFunctional)},
		{"inconnu conservé", strPtr(" En réparation "), strPtr("En réparation")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeState(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	assert.Equal(t, 0.0, CalculatePercentage(5, 0))
	assert.Equal(t, 50.0, CalculatePercentage(1, 2))
	assert.Equal(t, 33.33, CalculatePercentage(1, 3))
	assert.Equal(t, 66.67, CalculatePercentage(2, 3))
	assert.Equal(t, 100.0, CalculatePercentage(7, 7))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "inventaire_2024.xlsx", SanitizeFilename("../../inventaire 2024.xlsx"))
	assert.Equal(t, "rapport.xlsx", SanitizeFilename("rap*po?rt.xlsx"))
	assert.Equal(t, "données.xlsx", SanitizeFilename("données.xlsx"))
	assert.Equal(t, "état_matériel_v2.xlsx", SanitizeFilename("état matériel (v2).xlsx"))
}
