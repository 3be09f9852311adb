// Package planner turns grid dimensions and a base solver command into the
// immutable set of cells that make up one run.
package planner

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/tcpspsuite/gridsubmit/pkg/models"
)

// Solver flags appended to every cell command.
const (
	FlagStorage         = "-s"
	FlagPartitionCount  = "--partition-count"
	FlagPartitionNumber = "--partition-number"
)

// Request describes the grid to build.
type Request struct {
	HChunks int
	VChunks int
	// BaseCommand is the solver binary followed by the pass-through arguments.
	BaseCommand []string
	// Label optionally prefixes every job id and name, to keep runs apart.
	Label   string
	WorkDir string
}

// Plan builds the grid. Non-positive dimensions give an empty plan.
func Plan(req Request) (*models.GridPlan, error) {
	if req.HChunks <= 0 || req.VChunks <= 0 {
		return models.NewGridPlan(0, 0, nil), nil
	}
	if len(req.BaseCommand) == 0 {
		return nil, fmt.Errorf("base command must not be empty")
	}

	columns := make([][]models.JobSpec, req.HChunks)
	for i := 0; i < req.HChunks; i++ {
		storage := StoragePath(req.WorkDir, i)
		command := append(append([]string(nil), req.BaseCommand...),
			FlagStorage, storage,
			FlagPartitionCount, strconv.Itoa(req.HChunks),
			FlagPartitionNumber, strconv.Itoa(i),
		)

		column := make([]models.JobSpec, req.VChunks)
		for v := 0; v < req.VChunks; v++ {
			job := models.JobSpec{
				HChunk:      i,
				VChunk:      v,
				ID:          JobID(req.Label, i, v),
				Name:        DisplayName(req.Label, i, v, req.HChunks, req.VChunks),
				StoragePath: storage,
				Command:     append([]string(nil), command...),
				Artifacts:   Artifacts(req.WorkDir, i, v),
			}
			if v > 0 {
				job.DependsOn = column[v-1].ID
			}
			column[v] = job
		}
		columns[i] = column
	}
	return models.NewGridPlan(req.HChunks, req.VChunks, columns), nil
}

// JobID is "[label__]hchunk_<i>_vchunk_<v>".
func JobID(label string, i, v int) string {
	return withLabel(label, fmt.Sprintf("hchunk_%d_vchunk_%d", i, v))
}

// DisplayName numbers cells from one, e.g. "hchunk_1_of_4__vchunk_2_of_3".
func DisplayName(label string, i, v, hchunks, vchunks int) string {
	return withLabel(label, fmt.Sprintf("hchunk_%d_of_%d__vchunk_%d_of_%d", i+1, hchunks, v+1, vchunks))
}

// StoragePath is the database shared by all steps of column i.
func StoragePath(workDir string, i int) string {
	return filepath.Join(workDir, fmt.Sprintf("storage_hchunk_%d.sqlite3", i))
}

// Artifacts lays out the per cell files under workDir.
func Artifacts(workDir string, i, v int) models.CellArtifacts {
	suffix := fmt.Sprintf("hchunk_%d_vchunk_%d", i, v)
	path := func(prefix, ext string) string {
		return filepath.Join(workDir, prefix+suffix+ext)
	}
	return models.CellArtifacts{
		ScriptPath:  path("run_", ".sh"),
		LogPath:     path("log__", ".txt"),
		EnvPath:     path("environment_", ".txt"),
		CPUInfoPath: path("cpuinfo_", ".txt"),
		MemInfoPath: path("meminfo_", ".txt"),
		DmesgPath:   path("dmesg_", ".txt"),
	}
}

func withLabel(label, s string) string {
	if label == "" {
		return s
	}
	return label + "__" + s
}
