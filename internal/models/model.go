// Package models contains the records the console reads from and writes to
// the ledger backend.
//
// All records are owned by the backend. The console only holds transient
// copies for the duration of a single request.
package models

import (
	"github.com/program-ledger/console/internal/types"
)

// Model is the part every backend record shares.
type Model struct {
	ID types.ID `json:"id"`
}
