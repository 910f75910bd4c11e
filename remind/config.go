package remind

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups the scheduler tunables. Values are taken from environment
// variables with the prefix "REMIND_". Example: REMIND_MIN_LEAD=5s .
type Config struct {
	// MinLead drops reminders closer than this to now; zero arms anything
	// still in the future.
	MinLead time.Duration `envconfig:"MIN_LEAD" default:"0s"`
}

// LoadConfig populates Config from environment variables (prefix REMIND_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("REMIND", &c)
}
