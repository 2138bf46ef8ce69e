package commands

import (
	"flag"
	"fmt"
)

// RunVersion handles the `consolectl version` subcommand.
func RunVersion(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	base := baseFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	body, status, err := get(*base, "/console/version")
	if err != nil {
		return err
	}
	if status != 200 {
		return statusErr(body, status)
	}

	fmt.Println(string(body))
	return nil
}
