package main

import (
	"os"

	"github.com/wonny/caiwu/cmd/caiwu/commands"
)

// main is the entry point for the caiwu CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/caiwu [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
