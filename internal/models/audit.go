package models

import (
	"time"
)

// Audit entities and actions.
const (
	AuditEntityCategory = "category"
	AuditEntityField    = "field_definition"
	AuditEntityAsset    = "asset"

	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditEvent records one successful mutation. Written in the same transaction
// as the mutation it describes.
type AuditEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   string    `gorm:"type:char(36);not null;index" json:"owner"`
	Entity    string    `gorm:"size:32;not null" json:"entity"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	EntityID  uint64    `gorm:"not null" json:"entity_id"`
	Payload   JSON      `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name for AuditEvent
func (AuditEvent) TableName() string {
	return "audit_events"
}
