package model

import (
	"strings"
	"time"
)

type EntityType string

const (
	EntityPatients  EntityType = "patients"
	EntityEmployees EntityType = "employees"
)

// EntityTypes lists every type that carries its own archive store and settings.
var EntityTypes = []EntityType{EntityPatients, EntityEmployees}

func ParseEntityType(raw string) (EntityType, error) {
	candidate := EntityType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range EntityTypes {
		if candidate == known {
			return known, nil
		}
	}

	return "", ErrInvalidEntityType
}

// StatusInactive is the status sentinel that makes an entity a candidate for automatic archival.
const StatusInactive = "inactive"

// Entity is the projection of a patient or employee used by the archive rules.
type Entity struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}
