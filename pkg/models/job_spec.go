package models

import (
	"fmt"
	"strings"
)

// JobSpec is one cell of the grid: step VChunk of horizontal partition HChunk.
type JobSpec struct {
	HChunk int `json:"HChunk"`
	VChunk int `json:"VChunk"`

	// ID is unique across the grid and across runs that use distinct labels.
	ID string `json:"ID"`
	// Name is the human oriented name handed to the scheduler.
	Name string `json:"Name"`

	// StoragePath is shared by every step of the same column. Step v reads
	// what step v-1 left there.
	StoragePath string `json:"StoragePath"`

	Command []string `json:"Command"`

	// DependsOn is the ID of the cell at (HChunk, VChunk-1), empty for the
	// first step of a column.
	DependsOn string `json:"DependsOn,omitempty"`

	Artifacts CellArtifacts `json:"Artifacts"`
}

// CellArtifacts are the per cell files written before and during execution.
type CellArtifacts struct {
	ScriptPath  string `json:"ScriptPath"`
	LogPath     string `json:"LogPath"`
	EnvPath     string `json:"EnvPath"`
	CPUInfoPath string `json:"CPUInfoPath"`
	MemInfoPath string `json:"MemInfoPath"`
	DmesgPath   string `json:"DmesgPath"`
}

// HasPredecessor reports whether the cell must wait for an earlier step.
func (j JobSpec) HasPredecessor() bool {
	return j.DependsOn != ""
}

// Copy returns a deep copy of the job spec.
func (j JobSpec) Copy() JobSpec {
	nj := j
	nj.Command = append([]string(nil), j.Command...)
	return nj
}

func (j JobSpec) String() string {
	return fmt.Sprintf("%s (%s)", j.ID, strings.Join(j.Command, " "))
}
