package config

// DefaultThreads is the number of games converted per wave when neither the
// config nor the command line says otherwise.
const DefaultThreads = 10

const (
	defaultConfigPath    = "~/.config/mchsplit/config.toml"
	projectConfigName    = "mchsplit.toml"
	defaultSource        = "cheats.xml"
	defaultOutputDir     = "MCH"
	defaultHistoryPath   = "~/.local/share/mchsplit/history.db"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Source:    defaultSource,
			OutputDir: defaultOutputDir,
		},
		Split: Split{
			Threads: DefaultThreads,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
