package commands

import (
	"flag"
	"fmt"
)

// RunPing handles the `consolectl ping` subcommand.
func RunPing(args []string) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	base := baseFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	body, status, err := get(*base, "/console/ping")
	if err != nil {
		return fmt.Errorf("bridge is not responding: %w", err)
	}
	if status != 200 {
		return statusErr(body, status)
	}

	fmt.Println(string(body))
	return nil
}
