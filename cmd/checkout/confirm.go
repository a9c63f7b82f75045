package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var confirm = cli.Command{
	Name:      "confirm",
	Usage:     "confirm a checkout and submit the payment",
	ArgsUsage: "<checkout id>",
	Action:    confirmAction,
}

var cancel = cli.Command{
	Name:      "cancel",
	Usage:     "cancel a checkout before its confirmation",
	ArgsUsage: "<checkout id>",
	Action:    cancelAction,
}

var reconcile = cli.Command{
	Name:      "reconcile",
	Usage:     "resolve a checkout whose submission outcome is unknown",
	ArgsUsage: "<checkout id>",
	Action:    reconcileAction,
}

func confirmAction(ctx *cli.Context) error {
	return postAction(ctx, "confirm")
}

func cancelAction(ctx *cli.Context) error {
	return postAction(ctx, "cancel")
}

func reconcileAction(ctx *cli.Context) error {
	return postAction(ctx, "reconcile")
}

func postAction(ctx *cli.Context, action string) error {
	if ctx.NArg() != 1 {
		return cli.ShowSubcommandHelp(ctx)
	}

	resp, err := doRequest(
		http.MethodPost,
		baseUrl(ctx)+"/v1/checkouts/"+ctx.Args().First()+"/"+action,
		nil,
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
