package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var get = cli.Command{
	Name:      "get",
	Usage:     "get the current status of a checkout",
	ArgsUsage: "<checkout id>",
	Action:    getAction,
}

var list = cli.Command{
	Name:   "list",
	Usage:  "list all checkouts",
	Action: listAction,
}

var tx = cli.Command{
	Name:      "tx",
	Usage:     "look up the checkout settled by a transaction",
	ArgsUsage: "<transaction id>",
	Action:    txAction,
}

func getAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	resp, err := doRequest(
		http.MethodGet, baseUrl(ctx)+"/v1/checkouts/"+ctx.Args().First(), nil,
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func txAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	resp, err := doRequest(
		http.MethodGet,
		baseUrl(ctx)+"/v1/transactions/"+ctx.Args().First()+"/checkout",
		nil,
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listAction(ctx *cli.Context) error {
	resp, err := doRequest(http.MethodGet, baseUrl(ctx)+"/v1/checkouts", nil)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
