package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type DistrictFailures struct {
	Code     null.String `db:"code"`
	District null.String `db:"district"`
	Failures uint64      `db:"nombre_pannes"`
	Total    uint64      `db:"total_materiels"`
}

type TypeFailures struct {
	Type     null.String `db:"type"`
	Failures uint64      `db:"nombre_pannes"`
}

type RegionCounts struct {
	Code       null.String `db:"code"`
	Region     null.String `db:"region"`
	Total      uint64      `db:"total_materiels"`
	Functional uint64      `db:"fonctionnels"`
}

type BatchStateCounts struct {
	BatchID       uint64    `db:"id_date"`
	Date          time.Time `db:"date_complet"`
	Functional    uint64    `db:"fonctionnels"`
	NonFunctional uint64    `db:"non_fonctionnels"`
}

type GlobalCounts struct {
	Total         uint64 `db:"total_materiels"`
	Functional    uint64 `db:"fonctionnels"`
	NonFunctional uint64 `db:"non_fonctionnels"`
}
