package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/dre-diagnostics/internal/config"
	"github.com/iwvelando/dre-diagnostics/internal/diagnosis"
	"github.com/iwvelando/dre-diagnostics/internal/logging"
	"github.com/iwvelando/dre-diagnostics/pkg/constants"
	"github.com/iwvelando/dre-diagnostics/pkg/format"
	"github.com/iwvelando/dre-diagnostics/pkg/output"
	"github.com/iwvelando/dre-diagnostics/pkg/validation"
	"go.uber.org/zap"
)

type options struct {
	configLocation string
	outputFormat   string
	logLevel       string
	locale         string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("dre-diagnostics", flag.ContinueOnError)
	fs.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	fs.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&opts.locale, "locale", "", "locale override for pretty output (en, pt-BR)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(opts options, stdout io.Writer) error {
	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := logging.New(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	localeName := conf.Output.Locale
	if opts.locale != "" {
		localeName = opts.locale
	}
	loc, err := format.NewLocale(localeName)
	if err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results, err := diagnosis.GetDiagnoses(logger, *conf)
	if err != nil {
		return fmt.Errorf("failed to compute diagnoses: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(stdout, loc, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(stdout, results); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}

	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
