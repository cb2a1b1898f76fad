package config

import (
	"strings"
	"testing"
)

func TestParseEnvWrapsErrors(t *testing.T) {
	var target struct {
		Count int `env:"CONFIG_TEST_COUNT"`
	}
	t.Setenv("CONFIG_TEST_COUNT", "many")

	err := parseEnv(&target)
	if err == nil || !strings.HasPrefix(err.Error(), "parse env:") {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}
}

func TestParseEnvRequiresPointer(t *testing.T) {
	var target struct{}
	if err := parseEnv(target); err == nil {
		t.Fatal("expected error for non-pointer target")
	}
}
