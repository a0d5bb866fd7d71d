package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/cli"
	"github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/logging"
)

func main() {
	logging.Setup(logging.ParseLevel(os.Getenv("LOG_LEVEL")))

	if err := cli.NewRootCommand(&cli.RootOptions{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
