package models

import (
	"strings"

	"github.com/program-ledger/console/internal/types"
	"github.com/shopspring/decimal"
)

type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "Active"
	ProgramStatusInactive ProgramStatus = "Inactive"
)

// ProgramStatuses lists the statuses offered in forms.
var ProgramStatuses = []ProgramStatus{ProgramStatusActive, ProgramStatusInactive}

// Inactive reports whether the status marks a program as inactive.
// The comparison ignores case, the backend stores whatever was sent.
func (s ProgramStatus) Inactive() bool {
	return strings.EqualFold(string(s), string(ProgramStatusInactive))
}

// Program is a project that owns WBS categories and ledger transactions.
type Program struct {
	Model
	ProgramEditable
	ProgramBudget decimal.NullDecimal `json:"program_budget"`
	EAC           decimal.NullDecimal `json:"eac"`
	PercentSpent  decimal.NullDecimal `json:"percent_spent"`
	CreatedAt     *types.Timestamp    `json:"created_at,omitempty"`
	LastEditedAt  *types.Timestamp    `json:"last_edited_at,omitempty"`
}

// ProgramEditable contains the fields a user can set.
type ProgramEditable struct {
	ProgramName        string        `json:"program_name" form:"program_name" binding:"required"`
	ProgramCode        string        `json:"program_code" form:"program_code" binding:"required"`
	ProgramDescription *string       `json:"program_description" form:"program_description"`
	ProgramManager     string        `json:"program_manager" form:"program_manager" binding:"required"`
	ProgramStatus      ProgramStatus `json:"program_status" form:"program_status"`
}

// NewProgramEditable returns the blank creation form.
func NewProgramEditable() ProgramEditable {
	return ProgramEditable{ProgramStatus: ProgramStatusActive}
}

// Normalize trims the text fields, defaults the status and
// turns an empty description into null.
func (p ProgramEditable) Normalize() ProgramEditable {
	p.ProgramName = strings.TrimSpace(p.ProgramName)
	p.ProgramCode = strings.TrimSpace(p.ProgramCode)
	p.ProgramManager = strings.TrimSpace(p.ProgramManager)

	if p.ProgramStatus == "" {
		p.ProgramStatus = ProgramStatusActive
	}

	if p.ProgramDescription != nil && strings.TrimSpace(*p.ProgramDescription) == "" {
		p.ProgramDescription = nil
	}

	return p
}

// Description returns the description or the empty string.
func (p ProgramEditable) Description() string {
	if p.ProgramDescription == nil {
		return ""
	}
	return *p.ProgramDescription
}

// VisiblePrograms filters out inactive programs when hideInactive is set.
// The order of the input is kept.
func VisiblePrograms(programs []Program, hideInactive bool) []Program {
	visible := make([]Program, 0, len(programs))
	for _, p := range programs {
		if hideInactive && p.ProgramStatus.Inactive() {
			continue
		}
		visible = append(visible, p)
	}

	return visible
}
