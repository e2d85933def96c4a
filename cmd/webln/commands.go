package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	webln "github.com/lnbridge/go-webln"
	"github.com/urfave/cli/v2"
)

func info(c *cli.Context, client *webln.Client) error {
	resp, err := client.GetInfo(c.Context)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, resp)
}

func enable(c *cli.Context, client *webln.Client) error {
	if err := client.Enable(c.Context); err != nil {
		return err
	}
	return printJSON(c.App.Writer, map[string]bool{"enabled": true})
}

func isEnabled(c *cli.Context, client *webln.Client) error {
	return printJSON(c.App.Writer, map[string]bool{"enabled": client.IsEnabled(c.Context)})
}

func keysend(c *cli.Context, client *webln.Client) error {
	records, err := parseRecords(c.StringSlice("record"))
	if err != nil {
		return err
	}

	resp, err := client.Keysend(c.Context, &webln.KeysendArgs{
		Destination:   c.String("destination"),
		Amount:        c.Uint64("amount"),
		CustomRecords: records,
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, resp)
}

func pay(c *cli.Context, client *webln.Client) error {
	invoice := strings.TrimSpace(c.Args().First())
	if invoice == "" {
		return fmt.Errorf("missing invoice argument")
	}

	resp, err := client.SendPayment(c.Context, invoice)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, resp)
}

func invoice(c *cli.Context, client *webln.Client) error {
	args := &webln.RequestInvoiceArgs{
		Amount:        uint64Flag(c, "amount"),
		DefaultAmount: uint64Flag(c, "default-amount"),
		MinimumAmount: uint64Flag(c, "minimum-amount"),
		MaximumAmount: uint64Flag(c, "maximum-amount"),
	}
	if c.IsSet("memo") {
		memo := c.String("memo")
		args.DefaultMemo = &memo
	}

	resp, err := client.MakeInvoice(c.Context, args)
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, resp)
}

// uint64Flag returns nil for flags the user did not set.
func uint64Flag(c *cli.Context, name string) *uint64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Uint64(name)
	return &v
}

// parseRecords turns TYPE=VALUE pairs into keysend custom records.
func parseRecords(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	records := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		typ, value, ok := strings.Cut(pair, "=")
		typ = strings.TrimSpace(typ)
		if !ok || typ == "" {
			return nil, fmt.Errorf("invalid record %q, expected TYPE=VALUE", pair)
		}
		if _, dup := records[typ]; dup {
			return nil, fmt.Errorf("duplicate record type %s", typ)
		}
		records[typ] = value
	}
	return records, nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
