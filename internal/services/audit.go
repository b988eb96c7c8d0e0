package services

import (
	"encoding/json"

	"github.com/gestok/patrimonio-api/internal/models"
	"github.com/gestok/patrimonio-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultAuditLimit = 100

// recordAuditEvent writes an audit row inside the caller's transaction so the
// trail commits and rolls back with the mutation it describes.
func recordAuditEvent(tx *gorm.DB, ident types.Identity, entity, action string, entityID uint64, payload interface{}) error {
	body, err := marshalAuditPayload(payload)
	if err != nil {
		return err
	}

	event := models.AuditEvent{
		OwnerID:  ident.UserID,
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		Payload:  body,
	}
	return tx.Create(&event).Error
}

// ListAuditEvents returns the most recent audit events, newest first. When
// owner is non-empty the list is restricted to that owner's mutations.
func ListAuditEvents(db *gorm.DB, owner string, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLimit
	}

	events := []models.AuditEvent{}
	query := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
	if owner != "" {
		query = query.Where("owner_id = ?", owner)
	}
	if err := query.Order("id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// marshalAuditPayload renders the mutated entity as the JSON payload column.
func marshalAuditPayload(payload interface{}) (models.JSON, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.JSON{}, err
	}
	var j models.JSON
	if err := j.Scan(raw); err != nil {
		return models.JSON{}, err
	}
	return j, nil
}
