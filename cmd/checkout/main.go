package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "checkout CLI"
	app.Usage = "Command line interface for checkoutd daemon operators"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "the address <host:port> of the checkoutd daemon",
			Value: "localhost:9945",
		},
	}
	app.Commands = append(
		app.Commands,
		&start,
		&get,
		&list,
		&tx,
		&confirm,
		&cancel,
		&reconcile,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[checkout] %v\n", err)
	os.Exit(1)
}

func baseUrl(ctx *cli.Context) string {
	return "http://" + ctx.String("addr")
}

func doRequest(method, url string, body interface{}) (string, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return "", err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return "", err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf(
			"daemon replied with status %d: %s", resp.StatusCode, respBody,
		)
	}
	return string(respBody), nil
}

func printRespJSON(resp string) {
	var indented bytes.Buffer
	if err := json.Indent(&indented, []byte(resp), "", "\t"); err != nil {
		fmt.Println(resp)
		return
	}
	fmt.Println(indented.String())
}
