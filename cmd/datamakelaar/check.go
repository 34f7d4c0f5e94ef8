package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/woonstad/datamakelaar/internal/config"
	"github.com/woonstad/datamakelaar/internal/dataset"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and platform connectivity",
	Long: `Run a series of checks:

  1. Configuration and credentials are present
  2. The platform accepts the credentials
  3. Every dataset matches the platform metadata

Use this after changing credentials or dataset definitions.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	failed := 0
	fail := func(message string) {
		printStatus("✗", message, color.FgRed)
		failed++
	}

	if cfg.API.ClientID == "" {
		fail("client ID ontbreekt (zet LUXS_CLIENT_ID of api.client_id)")
	} else {
		printStatus("✓", fmt.Sprintf("client ID: %s", config.MaskSecret(cfg.API.ClientID)), color.FgGreen)
	}
	if cfg.API.ClientSecret == "" {
		fail("client secret ontbreekt (zet LUXS_CLIENT_SECRET of api.client_secret)")
	} else {
		printStatus("✓", fmt.Sprintf("client secret: %s", config.MaskSecret(cfg.API.ClientSecret)), color.FgGreen)
	}
	printStatus("•", fmt.Sprintf("API: %s", cfg.API.BaseURL), color.FgCyan)

	defs, err := loadDatasets(cfg)
	if err != nil {
		fail(err.Error())
		defs = nil
	} else {
		printStatus("✓", fmt.Sprintf("%d datasets geladen", len(defs)), color.FgGreen)
	}

	if failed > 0 {
		return fmt.Errorf("%d checks mislukt", failed)
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}
	if err := client.Ping(cmd.Context()); err != nil {
		fail(fmt.Sprintf("authenticatie mislukt: %v", err))
		return fmt.Errorf("%d checks mislukt", failed)
	}
	printStatus("✓", "authenticatie gelukt", color.FgGreen)

	for _, def := range defs {
		md, err := client.Metadata(cmd.Context(), def.ObjectType)
		if err != nil {
			fail(fmt.Sprintf("%s: metadata ophalen mislukt: %v", def.Name, err))
			continue
		}
		if err := dataset.MergeMetadata(def, md); err != nil {
			fail(fmt.Sprintf("%s: %v", def.Name, err))
			continue
		}
		printStatus("✓", fmt.Sprintf("%s: alle %d velden bekend bij het platform", def.Name, len(def.Fields)), color.FgGreen)
	}

	if failed > 0 {
		return fmt.Errorf("%d checks mislukt", failed)
	}
	return nil
}
