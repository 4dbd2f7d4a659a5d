/*
Copyright 2025 Reckon Ledger Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reckon-ledger/reckon"
	"github.com/reckon-ledger/reckon/config"
	"github.com/reckon-ledger/reckon/database"
	"github.com/reckon-ledger/reckon/internal/audit"
)

// Reckon wraps the root Cobra command of the CLI.
type Reckon struct {
	cmd *cobra.Command
}

// reckonInstance holds the engine instance and its configuration for the
// lifetime of a command.
type reckonInstance struct {
	reckon *reckon.Reckon
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the engine before any
// subcommand runs.
func preRun(app *reckonInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("reckon.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		engine, err := setupReckon(cnf)
		if err != nil {
			audit.NotifyError(err)
			log.Fatal(err)
		}

		app.reckon = engine
		app.cnf = cnf

		return nil
	}
}

func setupReckon(cfg *config.Configuration) (*reckon.Reckon, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	engine, err := reckon.NewReckon(db)
	if err != nil {
		return nil, fmt.Errorf("error creating reckon: %v", err)
	}
	return engine, nil
}

// NewCLI assembles the command tree.
func NewCLI() *Reckon {
	var configFile string
	r := &reckonInstance{}

	var rootCmd = &cobra.Command{
		Use:   "reckon",
		Short: "Ledger reconciliation engine",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./reckon.json", "Configuration file for the reconciliation engine")

	rootCmd.PersistentPreRunE = preRun(r)

	rootCmd.AddCommand(serverCommands(r))
	rootCmd.AddCommand(migrateCommands(r))
	rootCmd.AddCommand(configCommands())

	return &Reckon{cmd: rootCmd}
}

func (w Reckon) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
