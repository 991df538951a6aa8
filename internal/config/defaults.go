package config

const (
	defaultWorkDir      = "~/.local/share/rekindle/runs"
	defaultLogDir       = "~/.local/share/rekindle/logs"
	defaultKernelBinary = "rekindle-kernel"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Kernel: Kernel{
			Binary: defaultKernelBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
