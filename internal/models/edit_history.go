package models

import (
	"github.com/program-ledger/console/internal/types"
)

// EditHistoryEntry is a single line of the backend's append-only audit log.
type EditHistoryEntry struct {
	Model
	EditedBy     string          `json:"edited_by"`
	EditedAt     types.Timestamp `json:"edited_at"`
	FieldChanged string          `json:"field_changed"`
	OldValue     *string         `json:"old_value"`
	NewValue     *string         `json:"new_value"`
	RecordID     types.ID        `json:"record_id"`
	TableName    string          `json:"table_name"`
}
