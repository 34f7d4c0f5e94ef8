package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/woonstad/datamakelaar/internal/config"
	"github.com/woonstad/datamakelaar/internal/dataset"
	"github.com/woonstad/datamakelaar/internal/luxs"
	"github.com/woonstad/datamakelaar/internal/state"
)

// printStatus prints a colored status glyph followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// loadConfig loads the tool configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// loadDatasets returns the available dataset definitions: the files
// from the configured directory, or the built-in datasets when no
// directory is configured.
func loadDatasets(cfg *config.Config) ([]*dataset.Definition, error) {
	if cfg.Datasets.Dir == "" {
		return []*dataset.Definition{dataset.PODaken()}, nil
	}
	defs, err := dataset.LoadDir(cfg.Datasets.Dir)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no dataset definitions found in %s", cfg.Datasets.Dir)
	}
	return defs, nil
}

// findDataset resolves a dataset name against the available definitions.
func findDataset(cfg *config.Config, name string) (*dataset.Definition, error) {
	defs, err := loadDatasets(cfg)
	if err != nil {
		return nil, err
	}
	return dataset.Find(defs, name)
}

// newAPIClient builds a LUXS client from the configuration.
func newAPIClient(cfg *config.Config) (*luxs.Client, error) {
	return luxs.NewClient(luxs.ClientConfig{
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
		BaseURL:      cfg.API.BaseURL,
		AuthURL:      cfg.API.AuthURL,
		Timeout:      cfg.API.Timeout,
	})
}

// openStateDB opens the run-history database, preferring the
// project-local one when it exists.
func openStateDB() (*state.DB, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = state.GlobalDBPath()
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}
	return db, nil
}
