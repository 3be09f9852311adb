package config

import "github.com/c2h5oh/datasize"

type GridSubmitConfig struct {
	Scheduler SchedulerConfig `yaml:"Scheduler" mapstructure:"scheduler"`
	Script    ScriptConfig    `yaml:"Script" mapstructure:"script"`
	Defaults  DefaultsConfig  `yaml:"Defaults" mapstructure:"defaults"`
}

type SchedulerConfig struct {
	// Kind is one of moab, slurm, pbs or dryrun.
	Kind string `yaml:"Kind" mapstructure:"kind"`
	// Binary replaces the scheduler's submit command when set.
	Binary     string       `yaml:"Binary" mapstructure:"binary"`
	NotifyMail string       `yaml:"NotifyMail" mapstructure:"notify_mail"`
	Queues     QueuesConfig `yaml:"Queues" mapstructure:"queues"`
}

type QueuesConfig struct {
	Short string `yaml:"Short" mapstructure:"short"`
	Long  string `yaml:"Long" mapstructure:"long"`
}

type ScriptConfig struct {
	MemoryCeiling datasize.ByteSize `yaml:"MemoryCeiling" mapstructure:"memory_ceiling"`
	// Bootstrap is copied into every run script before the solver starts.
	Bootstrap string `yaml:"Bootstrap" mapstructure:"bootstrap"`
	Shell     string `yaml:"Shell" mapstructure:"shell"`
}

type DefaultsConfig struct {
	CPUsPerNode int `yaml:"CPUsPerNode" mapstructure:"cpus_per_node"`
	MBPerCPU    int `yaml:"MBPerCPU" mapstructure:"mb_per_cpu"`
}
