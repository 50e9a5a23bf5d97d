package integrationtest

import (
	"os"
	"sync"

	"github.com/humanbelnik/kinoreview/internal/config"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once
)

// getConfig reads the env file named by INTEGRATION_ENV, falling back to .env.
func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.LoadFrom(os.Getenv("INTEGRATION_ENV"))
	})
	return cfg
}
