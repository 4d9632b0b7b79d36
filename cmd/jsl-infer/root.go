package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/usestring/jsl-infer/internal/cache"
	"github.com/usestring/jsl-infer/internal/config"
	"github.com/usestring/jsl-infer/internal/logging"
	"github.com/usestring/jsl-infer/internal/query"
	"github.com/usestring/jsl-infer/pkg/hint"
	"github.com/usestring/jsl-infer/pkg/infer"
	"github.com/usestring/jsl-infer/pkg/records"
	"github.com/usestring/jsl-infer/pkg/shape"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// inferOptions holds the flags of the root command.
type inferOptions struct {
	input              string
	valuesHints        []string
	discriminatorHints []string
	inputFormat        string
	query              string
	outputFormat       string
	indent             int
	logLevel           string
}

func newRootCmd() *cobra.Command {
	opts := &inferOptions{}

	cmd := &cobra.Command{
		Use:   "jsl-infer [INPUT]",
		Short: "Infer a JSON Schema Language schema from example records",
		Long: `jsl-infer reads example records (one JSON value per line, or one YAML
document per record) and prints the most specific JSON Schema Language
schema that accepts all of them.

INPUT is a file path; "-" or no argument reads standard input.

Objects are inferred as structs. Use --values-hint for map-like objects and
--discriminator-hint for tagged unions; both take JSON Pointers where "-"
addresses every array element or map value.`,
		Example: `  jsl-infer events.jsonl
  cat events.jsonl | jsl-infer --discriminator-hint /type
  jsl-infer --values-hint /labels --output-format jsonschema --indent 2 samples.yaml`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd, opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = "-"
			if len(args) == 1 {
				opts.input = args[0]
			}
			return runInfer(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.valuesHints, "values-hint", nil, "JSON Pointer of an object to infer as a map (repeatable)")
	flags.StringArrayVar(&opts.discriminatorHints, "discriminator-hint", nil, "JSON Pointer of the tag field of a tagged union (repeatable)")
	flags.StringVar(&opts.inputFormat, "input-format", "auto", "Input format: auto, json, yaml (or a media type)")
	flags.StringVarP(&opts.query, "query", "q", ".", "jq expression selecting the values to observe from each record")
	flags.StringVarP(&opts.outputFormat, "output-format", "o", "jsl", "Output format: jsl or jsonschema")
	flags.IntVar(&opts.indent, "indent", 0, "Indent the output by this many spaces (0 prints compact JSON)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(opts), newCheckCmd())
	return cmd
}

// setupLogging installs the global logger from the environment, with the
// --log-level flag taking precedence. Logs never go to stdout.
func setupLogging(cmd *cobra.Command, level string) error {
	cfg := config.Load()
	logCfg := logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
		Writer:     cmd.ErrOrStderr(),
	}
	if level != "" {
		logCfg.Level = level
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	cobra.OnFinalize(func() { _ = cleanup() })
	return nil
}

// runInfer reads every record, folds it, and writes exactly one schema
// document to w. Nothing is written when any step fails.
func runInfer(ctx context.Context, opts *inferOptions, w io.Writer) error {
	cfg := config.Load()

	hints, err := hint.Parse(opts.valuesHints, opts.discriminatorHints)
	if err != nil {
		return err
	}

	inFormat, err := records.ParseFormat(opts.inputFormat)
	if err != nil {
		return err
	}
	outFormat, err := infer.ParseOutputFormat(opts.outputFormat)
	if err != nil {
		return err
	}
	selector, err := query.Compile(opts.query)
	if err != nil {
		return err
	}

	detect, err := cache.Detector(cfg.TimestampCacheSize, shape.IsTimestamp)
	if err != nil {
		return fmt.Errorf("creating timestamp cache: %w", err)
	}
	inf := infer.New(
		infer.WithHints(hints),
		infer.WithMerger(shape.NewMerger(shape.WithTimestampDetector(detect))),
	)

	r, closeInput, err := records.Open(opts.input, inFormat, cfg.MaxRecordBytes)
	if err != nil {
		return err
	}
	defer closeInput()

	runOpts := []infer.RunOption{infer.WithBuffer(cfg.RecordBuffer)}
	if !selector.Identity() {
		runOpts = append(runOpts, infer.WithSelector(selector))
	}
	if err := infer.Run(ctx, r, inf, runOpts...); err != nil {
		return err
	}

	return writeDocument(w, infer.Document(inf.Schema(), outFormat), opts.indent)
}

// writeDocument encodes doc followed by a newline.
func writeDocument(w io.Writer, doc any, indent int) error {
	var (
		data []byte
		err  error
	)
	if indent > 0 {
		data, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(data); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
