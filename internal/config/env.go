package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
