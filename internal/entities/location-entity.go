package entities

import "github.com/aarondl/null/v8"

// Location correspond à une ligne de "localisation". Le quadruplet complet sert de clé
// naturelle : deux valeurs absentes sont considérées égales.
type Location struct {
	ID       uint64      `json:"code_localisation" db:"code_localisation"`
	Code     null.String `json:"code" db:"code"`
	Region   null.String `json:"region" db:"region"`
	District null.String `json:"district" db:"district"`
	Commune  null.String `json:"commune" db:"commune"`
}
