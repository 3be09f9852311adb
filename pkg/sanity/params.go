package sanity

// Solver flags that carry the parameters the sanity checks look at.
const (
	FlagInstanceDir  = "-d"
	FlagInstanceFile = "-f"
	FlagConfigFile   = "-c"
	FlagParallelism  = "-p"
	FlagUniqueKey    = "-u"
)

// Params is the part of the workload description checked before submission.
// A nil field means the parameter was not given.
type Params struct {
	InstanceDir  *string
	InstanceFile *string
	ConfigFile   *string
	Parallelism  *string
	UniqueKey    *string

	// ConfigSchema optionally points at a JSON schema the config file must satisfy.
	ConfigSchema string
}

// ParamsFromSolverArgs pulls the checked parameters out of the arguments that
// are forwarded to the solver. A flag only counts when a value follows it.
func ParamsFromSolverArgs(args []string) Params {
	return Params{
		InstanceDir:  LookupFlag(args, FlagInstanceDir),
		InstanceFile: LookupFlag(args, FlagInstanceFile),
		ConfigFile:   LookupFlag(args, FlagConfigFile),
		Parallelism:  LookupFlag(args, FlagParallelism),
		UniqueKey:    LookupFlag(args, FlagUniqueKey),
	}
}

// LookupFlag returns the value following the first occurrence of flag.
func LookupFlag(args []string, flag string) *string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			v := args[i+1]
			return &v
		}
	}
	return nil
}
