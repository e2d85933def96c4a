// Command webln drives a WebLN wallet from the terminal.
//
// With the bridge backend it serves a page on --listen; open it in a browser
// that has a WebLN extension and the commands run against that wallet. With
// the nwc backend it talks to a Nostr Wallet Connect wallet directly.
package main

import (
	"fmt"
	"os"

	"github.com/lnbridge/go-webln/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "webln"
	app.Usage = "talk to a WebLN wallet from the command line"
	app.Version = version

	app.Flags = globalFlags
	app.Commands = []*cli.Command{
		{
			Name:   "info",
			Usage:  "print the wallet's node info and supported methods",
			Action: withClient(info),
		},
		{
			Name:   "enable",
			Usage:  "ask the wallet for permission",
			Action: withClient(enable),
		},
		{
			Name:   "is-enabled",
			Usage:  "report whether the wallet is enabled, without prompting",
			Action: withClient(isEnabled),
		},
		{
			Name:    "keysend",
			Aliases: []string{"k"},
			Usage:   "send a spontaneous payment",
			Action:  withClient(keysend),
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "destination",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "hex-encoded node public key",
				},
				&cli.Uint64Flag{
					Name:     "amount",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "amount in sats",
				},
				&cli.StringSliceFlag{
					Name:    "record",
					Aliases: []string{"r"},
					Usage:   "custom TLV record as TYPE=VALUE, may be repeated",
				},
			},
		},
		{
			Name:      "pay",
			Aliases:   []string{"p"},
			Usage:     "pay a BOLT11 invoice",
			ArgsUsage: "<invoice>",
			Action:    withClient(pay),
		},
		{
			Name:    "invoice",
			Aliases: []string{"i"},
			Usage:   "create an invoice",
			Action:  withClient(invoice),
			Flags: []cli.Flag{
				&cli.Uint64Flag{Name: "amount", Aliases: []string{"a"}, Usage: "amount in sats"},
				&cli.Uint64Flag{Name: "default-amount", Usage: "amount suggested to the user"},
				&cli.Uint64Flag{Name: "minimum-amount", Usage: "lowest amount the user may pick"},
				&cli.Uint64Flag{Name: "maximum-amount", Usage: "highest amount the user may pick"},
				&cli.StringFlag{Name: "memo", Aliases: []string{"m"}, Usage: "invoice description"},
			},
		},
		{
			Name:   "env",
			Usage:  "list the supported environment variables",
			Action: printEnv,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "wallet backend: bridge | nwc (default from WEBLN_BACKEND)",
	},
	&cli.StringFlag{
		Name:    "listen",
		Aliases: []string{"l"},
		Usage:   "bridge listen address (default from WEBLN_BRIDGE_ADDR)",
	},
	&cli.StringFlag{
		Name:  "nwc-uri",
		Usage: "Nostr Wallet Connect URI (default from WEBLN_NWC_URI)",
	},
	&cli.StringFlag{
		Name:  "metrics",
		Usage: "serve Prometheus metrics on this address",
	},
	&cli.BoolFlag{
		Name:  "qr",
		Usage: "print the bridge URL as a QR code",
	},
	&cli.DurationFlag{
		Name:    "timeout",
		Aliases: []string{"t"},
		Usage:   "how long to wait for the wallet",
	},
	&cli.BoolFlag{
		Name:  "verbose",
		Usage: "enable debug logging",
	},
}

func printEnv(c *cli.Context) error {
	for _, ev := range config.EnvSpecs() {
		def := ev.Default
		if def == "" {
			def = "-"
		}
		fmt.Fprintf(c.App.Writer, "%-24s %-16s %s\n", ev.FullName, def, ev.Description)
	}
	return nil
}
