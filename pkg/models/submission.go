package models

import "time"

// JobHandle is the opaque identifier a scheduler returns for a submission.
type JobHandle string

func (h JobHandle) String() string {
	return string(h)
}

// SubmissionRecord is created once a cell has been accepted by the scheduler.
type SubmissionRecord struct {
	SessionID   string    `json:"SessionID"`
	JobID       string    `json:"JobID"`
	HChunk      int       `json:"HChunk"`
	VChunk      int       `json:"VChunk"`
	Handle      JobHandle `json:"Handle"`
	DependsOn   JobHandle `json:"DependsOn,omitempty"`
	ScriptPath  string    `json:"ScriptPath"`
	SubmittedAt time.Time `json:"SubmittedAt"`
}
