// Command sosctl drives a helpapp server from the terminal: manage contacts,
// report device state, press the SOS button and read notices.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "helpapp server base URL",
		Value:   "http://127.0.0.1:8080",
		EnvVars: []string{"HELPAPP_URL"},
	},
	&cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "Device bearer token",
		EnvVars: []string{"HELPAPP_TOKEN"},
	},
	&cli.DurationFlag{
		Name:  "timeout",
		Usage: "Request timeout",
		Value: 15 * time.Second,
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "sosctl",
		Usage:   "Control a helpapp SOS gateway",
		Version: Version,
		Description: `sosctl manages emergency contacts and triggers SOS dispatches.

Examples:
  sosctl contacts add --name "Alex" --number +15551234567
  sosctl device permissions --location --sms
  sosctl sos
  sosctl notices --limit 5`,
		Flags: globalFlags,
		Commands: []*cli.Command{
			contactsCommand,
			sosCommand,
			signalCommand,
			deviceCommand,
			noticesCommand,
			tokenCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func clientFrom(c *cli.Context) *apiClient {
	return newAPIClient(c.String("server"), c.String("token"), c.Duration("timeout"))
}
