package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwalitptl/rx-admin/internal/config"
	"github.com/jwalitptl/rx-admin/pkg/apiclient"
	"github.com/jwalitptl/rx-admin/pkg/logger"
)

var (
	Version    = "develop"
	CommitHash = "n/a"
)

// app is the state shared by every subcommand once flags are parsed
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	log    *logger.Logger
	output string
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "rxctl",
		Short:         "Prescription management from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("rxctl version: %s git_commit: %s\n", Version, CommitHash))

	flags := root.PersistentFlags()
	flags.String("api-url", apiclient.DefaultBaseURL, "Base URL of the prescriptions API")
	flags.StringP("output", "o", "text", "Output format [text, csv, json]")
	flags.CountP("verbose", "v", "-v for debug logs")
	flags.Bool("log-json", false, "Log as JSON instead of console text")

	_ = a.v.BindPFlag("client.base_url", flags.Lookup("api-url"))
	_ = a.v.BindPFlag("log.json", flags.Lookup("log-json"))

	root.AddCommand(
		newBrowseCommand(a),
		newListCommand(a),
		newReferenceCommand(a, "patients"),
		newReferenceCommand(a, "medications"),
		newSeedCommand(a),
		newMigrateCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := logger.ParseLevel(cfg.Log.Level)
	if n, _ := cmd.Flags().GetCount("verbose"); n > 0 {
		level = logger.DebugLevel
	}
	a.log = logger.NewLogger(&logger.Config{Level: level, JSON: cfg.Log.JSON, Output: os.Stderr}).
		WithComponent("rxctl")
	log.Logger = *a.log.Zerolog()

	a.output, _ = cmd.Flags().GetString("output")
	return nil
}

func (a *app) client() (*apiclient.Client, error) {
	return apiclient.New(a.cfg.Client.BaseURL,
		apiclient.WithTimeout(a.cfg.Client.Timeout),
		apiclient.WithCacheTTL(a.cfg.Client.CacheTTL),
	)
}
