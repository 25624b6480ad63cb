package entities

import "github.com/aarondl/null/v8"

// PhysicalEquipment est l'identité persistante d'un matériel, indépendante des imports.
type PhysicalEquipment struct {
	ID         uint64      `json:"id_physique" db:"id_physique"`
	LocationID uint64      `json:"code_localisation_ref" db:"code_localisation_ref"`
	Name       string      `json:"nom_materiel" db:"nom_materiel"`
	Type       null.String `json:"type" db:"type"`
}
