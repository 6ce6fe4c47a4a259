package main

import (
	"os"

	"github.com/firefly-engineering/proxyctl/cmd"
	"github.com/firefly-engineering/proxyctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
