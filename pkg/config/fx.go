package config

import (
	"log/slog"
	"os"

	"github.com/pseudomuto/reformat-sql/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(
		// REFORMAT_SQL_CONFIG, then .reformat-sql.yaml, then Defaults()
		func() (*Config, error) {
			return Load(os.Getenv(consts.ConfigEnvVar))
		},
		func(c *Config) *slog.Logger {
			return c.Logger(os.Stderr)
		},
	),
	fx.Invoke(slog.SetDefault),
)
