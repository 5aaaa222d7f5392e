package services

import (
	"encoding/json"
	"log"

	"github.com/framewave-studio/framewave-portal-api/models"
	"gorm.io/gorm"
)

// RecordActivity writes a best-effort activity-log entry. Failures are
// logged and never propagated; the triggering action must not be blocked.
func RecordActivity(db *gorm.DB, activityType string, actor *models.User, targetID *uint, details interface{}) {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.Printf("Activity marshal error: %v", err)
		} else {
			detailsJSON = string(data)
		}
	}

	activity := models.Activity{
		Type:      activityType,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		TargetID:  targetID,
		Details:   detailsJSON,
	}

	if err := db.Create(&activity).Error; err != nil {
		log.Printf("Failed to record activity %q: %v", activityType, err)
	}
}
