// Package event defines the per-tick records emitted by an experiment run.
package event

import (
	"github.com/spacemeshos/vdf/config"
	"github.com/spacemeshos/vdf/shared"
)

const (
	// UnitTypeVDFTick is the unit type of every record of a VDF run.
	UnitTypeVDFTick = "vdf_tick"

	// ErrMsgVerifyFailed marks a tick whose proof did not verify.
	ErrMsgVerifyFailed = "verify_failed"
)

// Metadata describes the parameters and the outcome of one tick.
type Metadata struct {
	Mode      config.InputMode      `json:"mode"`
	T         uint64                `json:"t"`
	K         uint32                `json:"k"`
	ProofAlgo shared.ProofAlgorithm `json:"proof_algo"`
	OK        bool                  `json:"ok"`
	ErrMsg    string                `json:"err_msg"`
}

// TimeUnit is one timed unit of work. Timestamps are nanoseconds since the start of the run.
type TimeUnit struct {
	UnitID           uint64   `json:"unit_id"`
	UnitType         string   `json:"unit_type"`
	TargetDurationNs *int64   `json:"target_duration_ns,omitempty"`
	StartTsNs        int64    `json:"start_ts_ns"`
	EndTsNs          int64    `json:"end_ts_ns"`
	DurationNs       int64    `json:"duration_ns"`
	WorkAmount       *uint64  `json:"work_amount,omitempty"`
	ProofSizeBytes   *int     `json:"proof_size_bytes,omitempty"`
	VerifyTimeNs     *int64   `json:"verify_time_ns,omitempty"`
	Metadata         Metadata `json:"metadata"`
}

// OK reports whether the unit's proof verified.
func (u *TimeUnit) OK() bool {
	return u.Metadata.OK
}

type TimeUnitEvent struct {
	RunID string   `json:"run_id"`
	Unit  TimeUnit `json:"unit"`
}

// NewMetadata returns the metadata of a tick evaluated with cfg in mode.
func NewMetadata(mode config.InputMode, cfg config.Config, ok bool) Metadata {
	m := Metadata{
		Mode:      mode,
		T:         cfg.T,
		K:         cfg.K,
		ProofAlgo: cfg.ProofAlgorithm,
		OK:        ok,
	}
	if !ok {
		m.ErrMsg = ErrMsgVerifyFailed
	}
	return m
}
