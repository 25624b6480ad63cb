package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type ImportBatch struct {
	ID        uint64    `json:"id_date" db:"id_date"`
	Date      time.Time `json:"date_complet" db:"date_complet"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Snapshot est l'état observé d'un matériel physique lors d'un import. Jamais modifié.
type Snapshot struct {
	ID              uint64      `db:"id_snapshot"`
	PhysicalID      uint64      `db:"id_physique"`
	State           null.String `db:"etat"`
	NormalizedState null.String `db:"etat_normalise"`
	BatchID         uint64      `db:"id_date_import"`
}

type Incident struct {
	ID                   uint64      `db:"id_incident"`
	Reason               string      `db:"motif"`
	ConsumablePurchased  null.String `db:"achat_consommable"`
	ConsumableCompatible null.String `db:"compatibilite_consommable"`
	SnapshotID           uint64      `db:"id_materiel"`
}

type UploadRecord struct {
	ID           uint64      `db:"id_upload"`
	Filename     string      `db:"filename"`
	UserID       null.Uint64 `db:"user_id"`
	BatchID      null.Uint64 `db:"id_date_import"`
	UploadDate   time.Time   `db:"upload_date"`
	InsertedRows int         `db:"inserted_rows"`
	SkippedRows  int         `db:"skipped_rows"`
	UserMail     null.String `db:"user_mail"`
}
