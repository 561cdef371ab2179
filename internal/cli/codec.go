package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arf-rpc/toolbox/codec"
	"github.com/arf-rpc/toolbox/ident"
)

// newCodecCmd builds a command with encode and decode subcommands, each
// taking a single value.
func newCodecCmd(use, short string, encode func([]byte) string, decode func(string) ([]byte, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <value>",
		Short: "Encode a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			fmt.Fprintln(cc.OutOrStdout(), encode([]byte(args[0])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <value>",
		Short: "Decode a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			b, err := decode(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			fmt.Fprintln(cc.OutOrStdout(), string(b))
			return nil
		},
	})

	return cmd
}

func newHexCmd() *cobra.Command {
	return newCodecCmd("hex", "Hex encoding", codec.ToHex, codec.Base16Decode)
}

func newBase64Cmd() *cobra.Command {
	return newCodecCmd("b64", "Base64 encoding", codec.ToBase64, codec.Base64Decode)
}

func newIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id <text>...",
		Short: "Turn text into an identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			maxLength, err := cc.Flags().GetInt("max-length")
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			fmt.Fprintln(cc.OutOrStdout(), ident.ToID(strings.Join(args, " "), maxLength))
			return nil
		},
	}
	cmd.Flags().Int("max-length", 0, "Cap the normalized text at this many characters")

	return cmd
}
