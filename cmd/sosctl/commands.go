package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	jwttoken "helpapp/internal/jwt_token"
	"helpapp/internal/platform/config"
	id "helpapp/pkg/domain"
)

var contactsCommand = &cli.Command{
	Name:  "contacts",
	Usage: "Manage emergency contacts (at most three)",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List stored contacts",
			Action: runContactsList,
		},
		{
			Name:  "add",
			Usage: "Add a contact by hand",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
				&cli.StringFlag{Name: "number", Usage: "Phone number", Required: true},
			},
			Action: runContactsAdd,
		},
		{
			Name:      "remove",
			Usage:     "Remove a contact by ID",
			ArgsUsage: "<contact-id>",
			Action:    runContactsRemove,
		},
		{
			Name:      "import",
			Usage:     "Import contacts from a YAML file",
			ArgsUsage: "<file.yaml>",
			Description: `The file lists contacts picked from an address book:

  contacts:
    - name: Alex
      number: "+15551234567"`,
			Action: runContactsImport,
		},
	},
}

var sosCommand = &cli.Command{
	Name:   "sos",
	Usage:  "Press the SOS button",
	Action: runSOS,
}

var signalCommand = &cli.Command{
	Name:  "signal",
	Usage: "Publish a tagged signal as the background monitor would",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "tag", Usage: "Signal tag", Value: "sendSOS"},
	},
	Action: runSignal,
}

var deviceCommand = &cli.Command{
	Name:   "device",
	Usage:  "Show or report handset state",
	Action: runDeviceShow,
	Subcommands: []*cli.Command{
		{
			Name:  "permissions",
			Usage: "Report granted permissions",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "location", Usage: "Location permission granted"},
				&cli.BoolFlag{Name: "sms", Usage: "SMS permission granted"},
			},
			Action: runDevicePermissions,
		},
		{
			Name:  "providers",
			Usage: "Report enabled location providers",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "gps", Usage: "GPS provider enabled"},
				&cli.BoolFlag{Name: "network", Usage: "Network provider enabled"},
			},
			Action: runDeviceProviders,
		},
		{
			Name:  "location",
			Usage: "Record the last known fix",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: "lat", Usage: "Latitude", Required: true},
				&cli.Float64Flag{Name: "lon", Usage: "Longitude", Required: true},
			},
			Action: runDeviceLocation,
		},
	},
}

var noticesCommand = &cli.Command{
	Name:  "notices",
	Usage: "Show recent alerts and confirmations",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "limit", Usage: "Maximum notices to show", Value: 20},
	},
	Action: runNotices,
}

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "Issue a device token signed with the server key",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "device", Usage: "Device identifier", Value: "default"},
		&cli.StringFlag{Name: "key", Usage: "Signing key", Value: config.DevSigningKey, EnvVars: []string{"JWT_SIGNING_KEY"}},
		&cli.StringFlag{Name: "issuer", Value: "helpapp", EnvVars: []string{"TOKEN_ISSUER"}},
		&cli.StringFlag{Name: "audience", Value: "helpapp-device", EnvVars: []string{"TOKEN_AUDIENCE"}},
		&cli.DurationFlag{Name: "ttl", Value: 30 * 24 * time.Hour, EnvVars: []string{"TOKEN_TTL"}},
	},
	Action: runToken,
}

type contactEntry struct {
	Name   string `yaml:"name" json:"name"`
	Number string `yaml:"number" json:"number"`
}

type importFile struct {
	Contacts []contactEntry `yaml:"contacts" json:"contacts"`
}

func readImportFile(path string) (*importFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f importFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Contacts) == 0 {
		return nil, fmt.Errorf("%s lists no contacts", path)
	}
	return &f, nil
}

func runContactsList(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodGet, "/contacts", nil)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runContactsAdd(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/contacts", contactEntry{
		Name:   c.String("name"),
		Number: c.String("number"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runContactsRemove(c *cli.Context) error {
	contactID, err := id.ParseContactID(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid contact id %q", c.Args().First())
	}
	if _, err := clientFrom(c).do(c.Context, http.MethodDelete, "/contacts/"+contactID.String(), nil); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %s\n", contactID)
	return nil
}

func runContactsImport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one file argument")
	}
	f, err := readImportFile(c.Args().First())
	if err != nil {
		return err
	}
	raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/contacts/import", f)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runSOS(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/sos", nil)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runSignal(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/signals", map[string]string{"tag": c.String("tag")})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runDeviceShow(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodGet, "/device", nil)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runDevicePermissions(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPut, "/device/permissions", map[string]bool{
		"location": c.Bool("location"),
		"sms":      c.Bool("sms"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runDeviceProviders(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPut, "/device/providers", map[string]bool{
		"gps":     c.Bool("gps"),
		"network": c.Bool("network"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runDeviceLocation(c *cli.Context) error {
	raw, err := clientFrom(c).do(c.Context, http.MethodPost, "/device/location", map[string]float64{
		"lat": c.Float64("lat"),
		"lon": c.Float64("lon"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runNotices(c *cli.Context) error {
	q := url.Values{"limit": []string{strconv.Itoa(c.Int("limit"))}}
	raw, err := clientFrom(c).do(c.Context, http.MethodGet, "/notices?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, raw)
}

func runToken(c *cli.Context) error {
	deviceID, err := id.ParseDeviceID(c.String("device"))
	if err != nil {
		return err
	}
	svc := jwttoken.NewJWTService(c.String("key"), c.String("issuer"), c.String("audience"), c.Duration("ttl"))
	token, _, err := svc.GenerateDeviceToken(c.Context, deviceID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}
