package commands

import (
	"encoding/json"
	"flag"
	"fmt"
)

// RunLogin handles the `consolectl login` subcommand. It prints the
// operator token so it can be exported for later commands.
func RunLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	base := baseFlag(fs)
	username := fs.String("username", "", "operator username")
	password := fs.String("password", "", "operator password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *password == "" {
		return fmt.Errorf("login: --username and --password are required")
	}

	payload, err := json.Marshal(map[string]string{
		"username": *username,
		"password": *password,
	})
	if err != nil {
		return err
	}

	body, status, err := postJSON(*base, "/console/operators/login", payload)
	if err != nil {
		return err
	}
	if status != 200 {
		return statusErr(body, status)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return err
	}

	fmt.Println(result.Token)
	return nil
}
