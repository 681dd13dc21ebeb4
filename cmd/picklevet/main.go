package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/picklevet/picklevet/config"
	"github.com/picklevet/picklevet/internal/fetch"
	"github.com/picklevet/picklevet/internal/walkfs"
	"github.com/picklevet/picklevet/scan"
	"github.com/picklevet/picklevet/scanresult"
)

func main() {
	app := &cli.App{
		Name:  "picklevet",
		Usage: "static safety scanner for pickle and pickle-derived model files",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "scan a file, directory, URL, or HuggingFace model repo",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "config file path",
						Value:   ".picklevet.kdl",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "scan a single file fetched over HTTP(S)",
					},
					&cli.StringFlag{
						Name:  "hf",
						Usage: "scan every recognized file in a HuggingFace model repo (owner/repo)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "output format: text, json, yaml",
						Value: "text",
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "maximum nested-archive recursion depth (overrides config)",
					},
				},
				Action: scanCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "picklevet: %v\n", err)
		os.Exit(1)
	}
}

func scanCommand(c *cli.Context) error {
	cfg, err := config.LoadKDL(c.String("config"))
	if err != nil {
		return err
	}
	if d := c.Int("max-depth"); d > 0 {
		cfg.MaxDepth = d
	}

	scanner, err := scan.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing scanner: %w", err)
	}

	ctx := context.Background()
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	var result scanresult.Result

	switch {
	case c.String("hf") != "":
		client := fetch.NewClient(cfg.FetchTimeout)
		result, err = fetch.ScanHuggingFaceModel(ctx, client, scanner, c.String("hf"))
	case c.String("url") != "":
		client := fetch.NewClient(cfg.FetchTimeout)
		result, err = fetch.ScanURL(ctx, client, scanner, c.String("url"))
	case c.NArg() > 0:
		result, err = scanPath(scanner, cfg, c.Args().First())
	default:
		return errors.New("usage: picklevet scan <path> | --url <href> | --hf <owner/repo>")
	}
	if err != nil {
		return err
	}

	if err := writeReport(os.Stdout, result, c.String("format")); err != nil {
		return err
	}
	if result.InfectedFiles > 0 {
		os.Exit(1)
	}
	return nil
}

func scanPath(scanner *scan.Scanner, cfg config.Config, path string) (scanresult.Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return scanresult.Result{}, err
	}
	if !info.IsDir() {
		return scanner.ScanFile(path)
	}

	var result scanresult.Result
	err = walkfs.Walk(path, cfg.Include, cfg.Exclude, func(file string) error {
		r, err := scanner.ScanFile(file)
		if err != nil {
			return err
		}
		result.Merge(r)
		return nil
	})
	return result, err
}
