package config

// ConfigSource a configuration data source (defaults, files, env variables, flags)
type ConfigSource interface {
	// Name is used in logs and load errors
	Name() string

	// Priority higher values override lower ones:
	// defaults 1, config.yaml 10, <env>.yaml 20, env variables 50, flags 100
	Priority() int

	// Load returns flat keys separated by dots, e.g. "dao.value"
	Load() (map[string]interface{}, error)
}
