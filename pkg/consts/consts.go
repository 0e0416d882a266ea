package consts

import "os"

const (
	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the config file looked up in the working directory
	DefaultConfigFile = ".reformat-sql.yaml"

	// ConfigEnvVar names the environment variable that overrides the config path
	ConfigEnvVar = "REFORMAT_SQL_CONFIG"

	// DefaultLogLevel is used when the config doesn't set log_level
	DefaultLogLevel = "warn"

	// DefaultIndentSize is the width of one indent step
	DefaultIndentSize = 4
)

// DefaultExtensions are the file extensions `fmt` picks up when walking directories.
var DefaultExtensions = []string{".sql"}
