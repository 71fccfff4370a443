package main

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/engage/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := cli.Execute(); err != nil {
		var cliErr *cli.CLIError
		if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
			return cliErr.ExitCode
		}
		return 1
	}
	return 0
}
