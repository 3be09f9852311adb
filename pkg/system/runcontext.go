package system

import (
	"os"
	"strconv"
)

// Environment variables set by the batch scheduler inside a job.
const (
	EnvSlurmNodeList   = "SLURM_NODELIST"
	EnvSlurmNodeName   = "SLURMD_NODENAME"
	EnvSlurmNodeID     = "SLURM_NODEID"
	EnvSlurmJobID      = "SLURM_JOBID"
	EnvSlurmJobNodes   = "SLURM_JOB_NUM_NODES"
	EnvSlurmNProcs     = "SLURM_NPROCS"
	EnvSlurmNTasks     = "SLURM_NTASKS"
	EnvSlurmMemPerCPU  = "SLURM_MEM_PER_CPU"
	EnvSlurmCPUsOnNode = "SLURM_CPUS_ON_NODE"
	EnvSlurmSubmitDir  = "SLURM_SUBMIT_DIR"
	EnvPBSJobID        = "PBS_JOBID"
	EnvMoabJobID       = "MOAB_JOBID"
)

// RunContext is what the scheduler tells a process about the allocation it
// runs in. It is read once and passed around by value.
type RunContext struct {
	NodeList   string
	NodeName   string
	NodeID     int
	JobID      string
	JobNodes   int
	NProcs     int
	NTasks     int
	MemPerCPU  string
	CPUsOnNode int
	SubmitDir  string
	PBSJobID   string
	MoabJobID  string

	hasNodeID   bool
	hasJobNodes bool
}

// LoadRunContext reads the scheduler environment through environ, which has
// the signature of os.LookupEnv.
func LoadRunContext(environ func(string) (string, bool)) RunContext {
	str := func(key string) string {
		v, _ := environ(key)
		return v
	}
	num := func(key string) (int, bool) {
		v, ok := environ(key)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	rc := RunContext{
		NodeList:  str(EnvSlurmNodeList),
		NodeName:  str(EnvSlurmNodeName),
		JobID:     str(EnvSlurmJobID),
		MemPerCPU: str(EnvSlurmMemPerCPU),
		SubmitDir: str(EnvSlurmSubmitDir),
		PBSJobID:  str(EnvPBSJobID),
		MoabJobID: str(EnvMoabJobID),
	}
	rc.NodeID, rc.hasNodeID = num(EnvSlurmNodeID)
	rc.JobNodes, rc.hasJobNodes = num(EnvSlurmJobNodes)
	rc.NProcs, _ = num(EnvSlurmNProcs)
	rc.NTasks, _ = num(EnvSlurmNTasks)
	rc.CPUsOnNode, _ = num(EnvSlurmCPUsOnNode)
	return rc
}

// CurrentRunContext reads the process environment.
func CurrentRunContext() RunContext {
	return LoadRunContext(os.LookupEnv)
}

// InsideJob reports whether the process already runs inside a batch job.
func (rc RunContext) InsideJob() bool {
	return rc.JobID != "" || rc.PBSJobID != "" || rc.MoabJobID != ""
}

// ActiveJobID is the job id of whichever scheduler started the process.
func (rc RunContext) ActiveJobID() string {
	switch {
	case rc.JobID != "":
		return rc.JobID
	case rc.PBSJobID != "":
		return rc.PBSJobID
	default:
		return rc.MoabJobID
	}
}

// HasPartition reports whether both the node id and node count were set,
// which is what a partitioned multi-node run needs.
func (rc RunContext) HasPartition() bool {
	return rc.hasNodeID && rc.hasJobNodes && rc.JobNodes > 0
}
