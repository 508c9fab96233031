package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/tabbridge/internal/infrastructure/config"
)

var schemaOutDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as JSON",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a.Config)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		fmt.Println(a.Manager.GetConfigFile())
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or write the config JSON schema",
	Long: `Print the JSON schema of the config file, or write it as
config.schema.json into a directory with --out.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if schemaOutDir != "" {
			path, err := config.GenerateSchemaFile(schemaOutDir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		}
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configSchemaCmd)

	configSchemaCmd.Flags().StringVarP(&schemaOutDir, "out", "o", "", "write the schema file into this directory")
}
