package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func exportCmd(configPath, logLevel *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [patterns...]",
		Short: "Export a merged SEM-I as JSON or YAML",
		Long: `Export loads the given SEM-I files (or the configured paths), merges
them, validates the result, and writes the merged document to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			s, _, err := loadSemI(args, cfg, logger)
			if err != nil {
				return err
			}

			doc := s.Document()
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal document: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(doc)
				if err != nil {
					return fmt.Errorf("marshal document: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}
