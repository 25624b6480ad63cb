package entities

import (
	"inventory-system/pkg/types"
)

type User struct {
	ID       uint64 `json:"id" db:"id"`
	Mail     string `json:"mail" db:"mail"`
	Password string `json:"-" db:"mot_de_passe"`

	types.BaseEntity
}
