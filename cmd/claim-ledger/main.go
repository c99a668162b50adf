package main

import (
	"fmt"
	"os"

	"claim-ledger/internal/cli"
	"claim-ledger/internal/cli/output"
)

func main() {
	output.ResetExitCode()

	if err := cli.NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		code := output.LastExitCode()
		if code > 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}

	if code := output.LastExitCode(); code > 0 {
		os.Exit(code)
	}
}
