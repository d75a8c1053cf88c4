package models

// Inventory event types published after a successful write.
const (
	EventItemCreated     = "item.created"
	EventItemUpdated     = "item.updated"
	EventItemDeleted     = "item.deleted"
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"
)

// InventoryEvent describes a committed change to items or categories.
type InventoryEvent struct {
	EventID   string `json:"event_id"`  // EventID is a unique identifier for the event.
	Type      string `json:"type"`      // Type is one of the Event* constants.
	EntityID  int64  `json:"entity_id"` // EntityID is the id of the changed item or category.
	Name      string `json:"name"`      // Name is the item or category name after the change.
	Timestamp int64  `json:"timestamp"` // Timestamp is the Unix time (seconds) of the change.
	Affected  int64  `json:"affected"`  // Affected counts items orphaned by a category delete.
}
