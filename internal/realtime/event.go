// Package realtime distributes table change events to SSE subscribers. Every
// write path publishes an event describing the mutation; the hub fans events
// out to connected clients, and Pub/Sub carries them across instances. The
// budget cart is deliberately never patched from these events; it stays
// in-memory client state until saved.
package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

// Tables that emit change events.
const (
	TableProducts         = "products"
	TableCategories       = "categories"
	TableProjects         = "projects"
	TableLineItems        = "line_items"
	TableBudgetCategories = "budget_categories"
	TableMilestones       = "milestones"
	TableMilestoneTasks   = "milestone_tasks"
)

var knownTables = map[string]bool{
	TableProducts:         true,
	TableCategories:       true,
	TableProjects:         true,
	TableLineItems:        true,
	TableBudgetCategories: true,
	TableMilestones:       true,
	TableMilestoneTasks:   true,
}

// KnownTable reports whether name is a table that emits change events.
func KnownTable(name string) bool {
	return knownTables[name]
}

// Event describes one table mutation.
type Event struct {
	ID        string                `json:"id"`
	Origin    string                `json:"origin,omitempty"`
	Table     string                `json:"table"`
	Type      enums.ChangeEventType `json:"type"`
	ProjectID string                `json:"project_id,omitempty"`
	New       any                   `json:"new,omitempty"`
	Old       any                   `json:"old,omitempty"`
	At        time.Time             `json:"at"`
}

// NewEvent stamps a change event with an id and timestamp.
func NewEvent(table string, typ enums.ChangeEventType, projectID string, newRow, oldRow any) Event {
	return Event{
		ID:        uuid.NewString(),
		Table:     table,
		Type:      typ,
		ProjectID: projectID,
		New:       newRow,
		Old:       oldRow,
		At:        time.Now().UTC(),
	}
}

// Encode serializes the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses an event off the wire.
func DecodeEvent(data []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}
