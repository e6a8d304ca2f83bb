// Command taskhub-admin serves the admin API and runs operational tasks.
package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	_ = godotenv.Load()
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
