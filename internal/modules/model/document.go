package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document is one row of the generic document store: a jsonb payload addressed
// by collection name + document id.
type Document struct {
	Collection string            `gorm:"type:text;primaryKey" json:"collection"`
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Data       datatypes.JSONMap `gorm:"type:jsonb;not null" swaggertype:"object" json:"data"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }
