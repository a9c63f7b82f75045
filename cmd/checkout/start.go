package main

import (
	"net/http"

	"github.com/urfave/cli/v2"
)

var start = cli.Command{
	Name:  "start",
	Usage: "start a new checkout for a conversation",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "conversation",
			Usage:    "the chat conversation identifier",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "product",
			Usage:    "the product reference being purchased",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "link",
			Usage: "the shared product link identifier, if the buyer came from one",
		},
		&cli.StringFlag{
			Name:     "wallet",
			Usage:    "the buyer's wallet address",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the fiat amount to pay",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "asset",
			Usage: "the settlement asset",
			Value: "USDC",
		},
	},
	Action: startAction,
}

func startAction(ctx *cli.Context) error {
	resp, err := doRequest(
		http.MethodPost, baseUrl(ctx)+"/v1/checkouts",
		map[string]string{
			"conversationId":   ctx.String("conversation"),
			"productReference": ctx.String("product"),
			"linkId":           ctx.String("link"),
			"walletAddress":    ctx.String("wallet"),
			"fiatAmount":       ctx.String("amount"),
			"settlementAsset":  ctx.String("asset"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
