package config_test

import (
	"fmt"

	"github.com/wonny/caiwu/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Server running on port: %s\n", cfg.Port)
	fmt.Printf("Statement source: %s\n", cfg.StatementSource)
	fmt.Printf("Report theme: %s\n", cfg.Report.Theme)
	fmt.Printf("Redis enabled: %v\n", cfg.Redis.Enabled)
}
