package dto

type StatisticsQuery struct {
	ImportDateID uint64 `query:"id_date_import" validate:"required,gte=1"`
	SkipType     int    `query:"skip_type" validate:"gte=0"`
	LimitType    int    `query:"limit_type" validate:"gte=1,lte=100"`
	SkipRegion   int    `query:"skip_region" validate:"gte=0"`
	LimitRegion  int    `query:"limit_region" validate:"gte=1,lte=100"`
}

func NewStatisticsQuery() StatisticsQuery {
	return StatisticsQuery{LimitType: 100, LimitRegion: 100}
}

type DistrictFailuresDTO struct {
	Code        *string `json:"code"`
	District    *string `json:"district"`
	Failures    uint64  `json:"nombre_pannes"`
	FailureRate float64 `json:"taux_pannes"`
	Total       uint64  `json:"total_materielle"`
}

type TypeFailuresDTO struct {
	Type     *string `json:"type"`
	Failures uint64  `json:"nombre_pannes"`
}

type RegionStatsDTO struct {
	Code           *string `json:"code"`
	Region         *string `json:"region"`
	Total          uint64  `json:"total_materiels"`
	FunctionalRate float64 `json:"taux_fonctionnel"`
}

type BatchStateDTO struct {
	Date          string `json:"date_importation"`
	Functional    uint64 `json:"fonctionnels"`
	NonFunctional uint64 `json:"non_fonctionnels"`
}

type GlobalSummaryDTO struct {
	Total          uint64  `json:"total_materiels"`
	Functional     uint64  `json:"materiels_fonctionnels"`
	Failed         uint64  `json:"materiels_en_panne"`
	FunctionalRate float64 `json:"taux_fonctionnement"`
	FailureRate    float64 `json:"taux_en_panne"`
}

type StatisticsDTO struct {
	NewEquipment     uint64                `json:"nouveau_materiel"`
	LostEquipment    uint64                `json:"materiel_perdu"`
	TopDistricts     []DistrictFailuresDTO `json:"top_5_districts_pannes"`
	FailuresByType   []TypeFailuresDTO     `json:"pannes_par_type_materiel"`
	EquipmentRegions []RegionStatsDTO      `json:"materiels_par_region"`
	LastImports      []BatchStateDTO       `json:"etat_6_dernieres_importations"`
	Summary          GlobalSummaryDTO      `json:"resume_global"`
}

type DashboardDTO struct {
	ImportDateID *uint64        `json:"id_date_import"`
	ImportDate   *string        `json:"date_import"`
	Statistics   *StatisticsDTO `json:"statistics"`
}
