package types

import "time"

// CarrierState reports whether a physical link is detected.
type CarrierState string

const (
	CarrierUp      CarrierState = "up"
	CarrierDown    CarrierState = "down"
	CarrierUnknown CarrierState = "unknown"
)

// InterfaceSnapshot is a point-in-time read of an interface's live state.
// It is never cached across a mutating call.
type InterfaceSnapshot struct {
	Name            string         `json:"name"`
	HardwareAddress string         `json:"hardware_address,omitempty"`
	IsUp            bool           `json:"is_up"`
	Mode            AddressingMode `json:"mode"`
	Static          *StaticConfig  `json:"static,omitempty"`

	// Informational, filled by the inventory listing only.
	Carrier CarrierState `json:"carrier,omitempty"`
	Driver  string       `json:"driver,omitempty"`
}

// State returns the addressing portion of the snapshot.
func (s InterfaceSnapshot) State() AddressingState {
	st := AddressingState{Mode: s.Mode}
	if s.Static != nil {
		c := s.Static.Clone()
		st.Static = &c
	}
	return st
}

// Link is an OS network link without addressing detail.
type Link struct {
	Name            string
	Index           int
	HardwareAddress string
	IsUp            bool
	Loopback        bool
	Carrier         CarrierState
	Driver          string
}

// Outcome is the terminal state of an apply operation.
type Outcome string

const (
	OutcomeApplied    Outcome = "applied"
	OutcomeRolledBack Outcome = "rolled_back"
	OutcomeFailed     Outcome = "failed"
)

// ApplyResult describes how an apply or revert operation ended.
type ApplyResult struct {
	Outcome     Outcome            `json:"outcome"`
	ProfileID   string             `json:"profile_id,omitempty"`
	ProfileName string             `json:"profile_name,omitempty"`
	Interface   string             `json:"interface"`
	Target      AddressingState    `json:"target"`
	Snapshot    *InterfaceSnapshot `json:"snapshot,omitempty"` // pre-apply state, for audit and manual undo

	Err               error `json:"-"`
	RollbackAttempted bool  `json:"rollback_attempted"`
	RollbackSucceeded bool  `json:"rollback_succeeded"`
	RollbackErr       error `json:"-"`

	VerifyAttempts int       `json:"verify_attempts"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// Duration returns how long the operation took.
func (r *ApplyResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
