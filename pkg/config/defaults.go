package config

// Default is applied before the config file and the environment.
var Default = map[string]interface{}{
	SchedulerKind:        "moab",
	SchedulerBinary:      "",
	SchedulerNotifyMail:  "",
	SchedulerQueuesShort: "singlenode",
	SchedulerQueuesLong:  "verylong",
	ScriptMemoryCeiling:  "60GB",
	ScriptBootstrap:      "",
	ScriptShell:          "/bin/bash",
	DefaultsCPUsPerNode:  16,
	DefaultsMBPerCPU:     4000,
}
