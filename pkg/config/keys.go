package config

// Configuration keys. Environment variables use the GRIDSUBMIT_ prefix with
// dots replaced by underscores, e.g. GRIDSUBMIT_SCHEDULER_KIND.
const (
	SchedulerKind        = "scheduler.kind"
	SchedulerBinary      = "scheduler.binary"
	SchedulerNotifyMail  = "scheduler.notify_mail"
	SchedulerQueuesShort = "scheduler.queues.short"
	SchedulerQueuesLong  = "scheduler.queues.long"
	ScriptMemoryCeiling  = "script.memory_ceiling"
	ScriptBootstrap      = "script.bootstrap"
	ScriptShell          = "script.shell"
	DefaultsCPUsPerNode  = "defaults.cpus_per_node"
	DefaultsMBPerCPU     = "defaults.mb_per_cpu"
)
