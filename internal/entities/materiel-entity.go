package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// MaterielView est une ligne de snapshot jointe à son matériel physique, sa localisation
// et sa date d'import.
type MaterielView struct {
	SnapshotID      uint64      `db:"id_snapshot"`
	PhysicalID      uint64      `db:"id_physique"`
	State           null.String `db:"etat"`
	NormalizedState null.String `db:"etat_normalise"`
	Name            string      `db:"nom_materiel"`
	Type            null.String `db:"type"`
	Code            null.String `db:"code"`
	Region          null.String `db:"region"`
	District        null.String `db:"district"`
	Commune         null.String `db:"commune"`
	ImportDate      time.Time   `db:"date_import"`
}

type MaterielDetail struct {
	MaterielView
	Reason               null.String `db:"motif"`
	ConsumablePurchased  null.String `db:"achat_consommable"`
	ConsumableCompatible null.String `db:"compatibilite_consommable"`
}
