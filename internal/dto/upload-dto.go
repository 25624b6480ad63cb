package dto

type SkipEventDTO struct {
	Row    int    `json:"ligne"`
	Reason string `json:"raison"`
}

type UploadResultDTO struct {
	Filename     string         `json:"filename"`
	Inserted     int            `json:"lignes_inserees"`
	Ignored      int            `json:"lignes_ignorees"`
	Rejected     int            `json:"lignes_rejetees"`
	ImportDate   string         `json:"date_import"`
	ImportDateID uint64         `json:"id_date_import"`
	Rejects      []SkipEventDTO `json:"rejets"`
}

type UploadHistoryDTO struct {
	ID           uint64  `json:"id_upload"`
	Filename     string  `json:"filename"`
	UploadDate   string  `json:"upload_date"`
	UserMail     *string `json:"user_mail"`
	ImportDateID *uint64 `json:"id_date_import"`
	Inserted     int     `json:"lignes_inserees"`
	Rejected     int     `json:"lignes_rejetees"`
}

type ImportDateDTO struct {
	ID   uint64 `json:"id_date"`
	Date string `json:"date_complet"`
}

type ImportDatesDTO struct {
	Total int             `json:"total"`
	Dates []ImportDateDTO `json:"dates"`
}
