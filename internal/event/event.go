package event

type Type string

const (
	TypeNotification    Type = "notification"
	TypeArchiveCreated  Type = "archive.created"
	TypeArchiveDeleted  Type = "archive.deleted"
	TypeArchivePurged   Type = "archive.purged"
	TypeSettingsUpdated Type = "archive.settings_updated"
)

type Event struct {
	ID         string `json:"id"`
	Type       Type   `json:"type"`
	EntityType string `json:"entity_type,omitempty"`
	Payload    any    `json:"payload"`
	Timestamp  string `json:"timestamp"`
	ActorID    string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
