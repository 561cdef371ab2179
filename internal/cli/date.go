package cli

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/arf-rpc/toolbox/dates"
)

// now is replaced in tests.
var now = time.Now

func newDateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Format the current time, or an epoch timestamp",
		Args:  cobra.NoArgs,
		RunE:  runDate,
	}
	cmd.Flags().StringP("format", "f", dates.DefaultFormat, "Date pattern")
	cmd.Flags().Bool("utc", false, "Use UTC fields")
	cmd.Flags().Int64("millis", 0, "Format this epoch timestamp in milliseconds instead of now")

	return cmd
}

func runDate(cc *cobra.Command, _ []string) error {
	flags := cc.Flags()

	var merr error

	format, err := flags.GetString("format")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	utc, err := flags.GetBool("utc")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	millis, err := flags.GetInt64("millis")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
	}

	if !flags.Changed("millis") {
		millis = now().UnixMilli()
	}
	fmt.Fprintln(cc.OutOrStdout(), dates.FormatMillis(millis, format, utc))

	return nil
}

func newISOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iso",
		Short: "Print the current UTC time as an ISO-8601 timestamp",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			millis, err := cc.Flags().GetBool("millis")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			fmt.Fprintln(cc.OutOrStdout(), dates.ISOTimestamp(now(), millis))
			return nil
		},
	}
	cmd.Flags().Bool("millis", false, "Include milliseconds")

	return cmd
}
