package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semi"
)

func queryCmd(configPath, logLevel *string) *cobra.Command {
	var patterns []string

	cmd := &cobra.Command{
		Use:   "query <op> <args...>",
		Short: "Query a loaded SEM-I",
		Long: `Query loads the configured SEM-I (or the files given with --semi) and
answers one question about it. Operations:

  ancestors <type>            ancestors, nearest first
  descendants <type>          descendants, lexicographic
  subsumes <a> <b>            whether a subsumes b
  compatible <a> <b>          whether a and b can unify
  properties <variable>       effective properties, inherited included
  role <role>                 a role's value constraint
  synopses <predicate>        a predicate's synopsis alternatives
  match <predicate> <ROLE=type...>
                              first synopsis matching the observed args`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			s, _, err := loadSemI(patterns, cfg, logger)
			if err != nil {
				return err
			}

			result, err := runQuery(s, args[0], args[1:])
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&patterns, "semi", nil, "SEM-I file patterns (default: configured paths)")
	return cmd
}

// runQuery dispatches one query operation against the SemI.
func runQuery(s *semi.SemI, op string, args []string) (any, error) {
	switch op {
	case "ancestors":
		if len(args) != 1 {
			return nil, fmt.Errorf("ancestors takes one type")
		}
		return s.Ancestors(args[0])

	case "descendants":
		if len(args) != 1 {
			return nil, fmt.Errorf("descendants takes one type")
		}
		return s.Descendants(args[0])

	case "subsumes":
		if len(args) != 2 {
			return nil, fmt.Errorf("subsumes takes two types")
		}
		return s.Subsumes(args[0], args[1])

	case "compatible":
		if len(args) != 2 {
			return nil, fmt.Errorf("compatible takes two types")
		}
		return s.Compatible(args[0], args[1])

	case "properties":
		if len(args) != 1 {
			return nil, fmt.Errorf("properties takes one variable type")
		}
		return s.Properties(args[0])

	case "role":
		if len(args) != 1 {
			return nil, fmt.Errorf("role takes one role name")
		}
		return s.RoleValue(args[0])

	case "synopses":
		if len(args) != 1 {
			return nil, fmt.Errorf("synopses takes one predicate")
		}
		return s.Synopses(args[0])

	case "match":
		if len(args) < 1 {
			return nil, fmt.Errorf("match takes a predicate and ROLE=type arguments")
		}
		observed, err := parseArgs(args[1:])
		if err != nil {
			return nil, err
		}
		return s.FindSynopsis(args[0], observed)

	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

// parseArgs parses ROLE=type pairs from the command line.
func parseArgs(pairs []string) ([]semi.Arg, error) {
	var observed []semi.Arg
	for _, pair := range pairs {
		role, value, ok := strings.Cut(pair, "=")
		if !ok || role == "" || value == "" {
			return nil, fmt.Errorf("malformed argument %q (want ROLE=type)", pair)
		}
		observed = append(observed, semi.Arg{Role: role, Value: value})
	}
	return observed, nil
}
