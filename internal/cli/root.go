package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arf-rpc/toolbox/logger"
)

var ErrInvalidArgument = errors.New("invalid argument")

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	logs *logger.Factory
	cfg  logger.Config
}

func (a *app) logger(tag string) *logger.Logger {
	if a.logs == nil {
		a.logs = logger.NewFactory(nil)
		a.cfg = logger.ConfigFromEnv()
	}
	return a.logs.Get(tag, &a.cfg)
}

func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "", "Set the log level (trace, debug, info, warn, error, fatal)")
	cmd.PersistentFlags().String("config", "", "Read logger settings from this YAML file")
	cmd.PersistentFlags().String("color", "auto", "Colorize log output (auto, always, never)")

	if err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml"); err != nil {
		panic(err)
	}

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		flags := cc.Flags()

		var merr error

		logLevel, err := flags.GetString("log-level")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		configPath, err := flags.GetString("config")
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		color, err := flags.GetString("color")
		if err != nil {
			merr = multierror.Append(merr, err)
		}

		if merr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
		}

		cfg := logger.ConfigFromEnv()
		if configPath != "" {
			f, err := os.Open(configPath)
			if err != nil {
				return fmt.Errorf("failed to open config: %w", err)
			}
			defer f.Close()

			cfg, err = logger.LoadConfig(f)
			if err != nil {
				return fmt.Errorf("failed to load config %s: %w", configPath, err)
			}
		}

		if logLevel != "" {
			if _, err := logger.ParseLevel(logLevel); err != nil {
				merr = multierror.Append(merr, err)
			}
			cfg.Level = logLevel
		}

		switch strings.ToLower(color) {
		case "always":
			cfg.ShowColor = true
		case "never":
			cfg.ShowColor = false
		case "auto":
			if configPath == "" {
				cfg.ShowColor = isatty.IsTerminal(os.Stderr.Fd())
			}
		default:
			merr = multierror.Append(merr, fmt.Errorf("unknown color mode %q", color))
		}

		if merr != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
		}

		a.cfg = cfg
		a.logs = logger.NewFactory(cc.ErrOrStderr())
		a.logger("cli").Debug("running ", cc.CommandPath())

		return nil
	}

	cmd.AddCommand(newHexCmd())
	cmd.AddCommand(newBase64Cmd())
	cmd.AddCommand(newIDCmd())
	cmd.AddCommand(newDateCmd())
	cmd.AddCommand(newISOCmd())
	cmd.AddCommand(newSHA256Cmd())
	cmd.AddCommand(newHMACCmd())
	cmd.AddCommand(newSealCmd(a))
	cmd.AddCommand(newOpenCmd(a))
	cmd.AddCommand(newPipeCmd(a))

	return cmd
}
