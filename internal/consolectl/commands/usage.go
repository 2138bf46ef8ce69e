package commands

import "fmt"

func PrintUsage() {
	fmt.Println(`consolectl - operator tooling for the console bridge

Usage:
  consolectl <command> [flags]

Commands:
  ping      check that the bridge is responding
  version   print the running bridge version
  login     log in and print an operator token
  live      attach to a session's live stream and print events

Flags common to all commands:
  --base <url>   bridge base URL (default http://localhost:8080)`)
}
