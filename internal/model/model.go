package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []any{
	&FestivalInfo{},
	&Snapshot{},
	&Preference{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// FestivalInfo is the single settings row describing the event the map serves
type FestivalInfo struct {
	gorm.Model
	Name    string  `json:"name" gorm:"size:128"`
	BaseLat float64 `json:"baseLat"`
	BaseLng float64 `json:"baseLng"`
}

func (*FestivalInfo) TableName() string {
	return "festival_infos"
}

////////////////////////
// MAP STATE
////////////////////////

// Snapshot is a named export of both marker sets. The entity lists are
// stored as JSON so the schema does not follow every vendor field.
type Snapshot struct {
	ID                  string         `json:"id" gorm:"primaryKey;size:36"`
	Name                string         `json:"name" gorm:"uniqueIndex;size:128;not null"`
	CreatedAt           time.Time      `json:"createdAt" gorm:"index"`
	VendorCount         int            `json:"vendorCount"`
	InfrastructureCount int            `json:"infrastructureCount"`
	Vendors             datatypes.JSON `json:"vendors"`
	Infrastructure      datatypes.JSON `json:"infrastructure"`
}

func (*Snapshot) TableName() string {
	return "snapshots"
}

// Preference holds one visitor session's favorites and visited lists
type Preference struct {
	SessionID string         `json:"sessionId" gorm:"primaryKey;size:64"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Data      datatypes.JSON `json:"data"`
}

func (*Preference) TableName() string {
	return "preferences"
}
