package main

import (
	"context"
	"os"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
