package bootstrap

import (
	"fmt"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/store"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := store.GetDialector(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}
	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == "" {
		return fmt.Errorf("invalid database configuration: DATABASE_DSN is required for postgres")
	}
	return nil
}
