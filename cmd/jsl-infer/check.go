package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/usestring/jsl-infer/internal/config"
	"github.com/usestring/jsl-infer/internal/schema"
	"github.com/usestring/jsl-infer/pkg/jsl"
	"github.com/usestring/jsl-infer/pkg/records"
)

type checkOptions struct {
	schemaPath  string
	inputFormat string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check --schema FILE [INPUT]",
		Short: "Validate records against a JSON Schema Language schema",
		Long: `check validates every record of INPUT against a schema previously
printed by jsl-infer (JSL form). Failing records are listed on stdout as
"record N: error"; the command exits non-zero if any record fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runCheck(opts, input, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "Path to a JSL schema document")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "auto", "Input format: auto, json, yaml")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runCheck(opts *checkOptions, input string, w io.Writer) error {
	data, err := os.ReadFile(opts.schemaPath)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}
	var s jsl.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing schema %s: %w", opts.schemaPath, err)
	}

	validator, err := schema.NewValidator(&s)
	if err != nil {
		return err
	}

	format, err := records.ParseFormat(opts.inputFormat)
	if err != nil {
		return err
	}
	r, closeInput, err := records.Open(input, format, config.Load().MaxRecordBytes)
	if err != nil {
		return err
	}
	defer closeInput()

	var checked, failed int
	for {
		v, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		checked++

		result := validator.ValidateValue(v)
		if result.Valid {
			continue
		}
		failed++
		for _, msg := range result.Errors {
			if _, err := fmt.Fprintf(w, "record %d: %s\n", checked, msg); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records failed validation", failed, checked)
	}
	return nil
}
