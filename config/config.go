package config

import (
	"github.com/namsral/flag"
)

type Config struct {
	DBPath   string
	LogLevel string

	NewCardLimit     int
	MicroLimit       int
	DesiredRetention float64
	MaxIntervalDays  int

	// Args holds the non-flag arguments left after parsing.
	Args []string
}

// Load loads the configs from the given arguments. Every flag can also be
// set through the environment (STUDYVAULT_DB_PATH and so on).
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSetWithEnvPrefix("studyvault", "STUDYVAULT", flag.ContinueOnError)

	fs.StringVar(&c.DBPath, "db-path", "studyvault.db", "path to the sqlite database file")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level")
	fs.IntVar(&c.NewCardLimit, "new-card-limit", 5, "maximum new cards injected into a session")
	fs.IntVar(&c.MicroLimit, "micro-limit", 12, "maximum cards in a micro session")
	fs.Float64Var(&c.DesiredRetention, "desired-retention", 0.9, "target recall probability for scheduling")
	fs.IntVar(&c.MaxIntervalDays, "max-interval-days", 365*5, "maximum scheduling interval in days")

	err := fs.Parse(args)
	c.Args = fs.Args()
	return err
}
