package dto

type MaterielDTO struct {
	IDSnapshot    uint64  `json:"id_snapshot"`
	IDPhysique    uint64  `json:"id_physique"`
	Etat          *string `json:"etat"`
	EtatNormalise *string `json:"etat_normalise"`
	NomMateriel   string  `json:"nom_materiel"`
	Type          *string `json:"type"`
	Code          *string `json:"code"`
	Region        *string `json:"region"`
	District      *string `json:"district"`
	Commune       *string `json:"commune"`
	DateImport    string  `json:"date_import"`
}

type MaterielDetailDTO struct {
	MaterielDTO
	Motif                    *string `json:"motif"`
	AchatConsommable         *string `json:"achat_consommable"`
	CompatibiliteConsommable *string `json:"compatibilite_consommable"`
}

type MaterielsByBatchQuery struct {
	PaginationQuery
	ImportDateID uint64 `query:"id_date_import" validate:"required,gte=1"`
}

type MaterielsByCommuneQuery struct {
	PaginationQuery
	ImportDateID uint64 `query:"id_date_import" validate:"required,gte=1"`
	Commune      string `query:"commune" validate:"required,notblank_trim"`
}

type NewMaterielsQuery struct {
	PaginationQuery
	OldDateID uint64 `query:"date_ancienne" validate:"required,gte=1"`
	NewDateID uint64 `query:"date_nouvelle" validate:"required,gte=1"`
}

type SearchByCodeQuery struct {
	PaginationQuery
	Code         string `query:"code" validate:"required,notblank_trim"`
	ImportDateID uint64 `query:"id_date_import"`
}
