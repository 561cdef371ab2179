package cli

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/arf-rpc/toolbox/codec"
	"github.com/arf-rpc/toolbox/cryptoutil"
)

var ErrSignatureMismatch = errors.New("signature does not match")

const saltSize = 16

func newSHA256Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sha256 <text>",
		Short: "Print the hex SHA-256 digest of text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			fmt.Fprintln(cc.OutOrStdout(), codec.ToHex(cryptoutil.SHA256(args[0])))
			return nil
		},
	}
}

func newHMACCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hmac <text>",
		Short: "Sign text with HMAC, or verify a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			flags := cc.Flags()

			var merr error

			alg, err := flags.GetString("alg")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			secret, err := flags.GetString("secret")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			verify, err := flags.GetString("verify")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			if verify == "" {
				sig, err := cryptoutil.HMACSign(alg, []byte(secret), []byte(args[0]))
				if err != nil {
					return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
				}
				fmt.Fprintln(cc.OutOrStdout(), codec.ToHex(sig))
				return nil
			}

			sig, err := codec.Base16Decode(verify)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			ok, err := cryptoutil.HMACVerify(alg, []byte(secret), []byte(args[0]), sig)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			if !ok {
				return ErrSignatureMismatch
			}
			fmt.Fprintln(cc.OutOrStdout(), "ok")
			return nil
		},
	}
	cmd.Flags().String("alg", cryptoutil.DefaultHash, "Hash algorithm (SHA-1, SHA-256, SHA-384, SHA-512)")
	cmd.Flags().String("secret", "", "Signing secret")
	cmd.Flags().String("verify", "", "Hex signature to check instead of signing")

	if err := cmd.MarkFlagRequired("secret"); err != nil {
		panic(err)
	}

	return cmd
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String("password", "", "Password the key is derived from")
	cmd.Flags().Int("iterations", cryptoutil.DefaultIterations, "PBKDF2 iterations")

	if err := cmd.MarkFlagRequired("password"); err != nil {
		panic(err)
	}
}

func keyFlags(cc *cobra.Command) (string, int, error) {
	flags := cc.Flags()

	var merr error

	password, err := flags.GetString("password")
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	iterations, err := flags.GetInt("iterations")
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
	}

	return password, iterations, nil
}

// newSealCmd encrypts text under a password. The output is three base64
// fields joined by dots: salt, IV and ciphertext.
func newSealCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal <text>",
		Short: "Encrypt text with AES-GCM under a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			password, iterations, err := keyFlags(cc)
			if err != nil {
				return err
			}

			salt := make([]byte, saltSize)
			if _, err := rand.Read(salt); err != nil {
				return fmt.Errorf("failed to generate salt: %w", err)
			}

			key, err := cryptoutil.DeriveKey(password, salt, cryptoutil.WithIterations(iterations))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			iv, ciphertext, err := cryptoutil.Encrypt([]byte(args[0]), key)
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}

			a.logger("seal").Debug("sealed ", len(args[0]), " bytes with ", iterations, " iterations")
			fmt.Fprintln(cc.OutOrStdout(), strings.Join([]string{
				codec.ToBase64(salt),
				codec.ToBase64(iv),
				codec.ToBase64(ciphertext),
			}, "."))

			return nil
		},
	}
	addKeyFlags(cmd)

	return cmd
}

func newOpenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <sealed>",
		Short: "Decrypt the output of seal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			password, iterations, err := keyFlags(cc)
			if err != nil {
				return err
			}

			parts := strings.Split(args[0], ".")
			if len(parts) != 3 {
				return fmt.Errorf("%w: expected salt.iv.ciphertext", ErrInvalidArgument)
			}

			var merr error
			fields := make([][]byte, len(parts))
			for i, p := range parts {
				b, err := codec.Base64Decode(p)
				if err != nil {
					merr = multierror.Append(merr, err)
				}
				fields[i] = b
			}
			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			key, err := cryptoutil.DeriveKey(password, fields[0], cryptoutil.WithIterations(iterations))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}
			plain, err := cryptoutil.Decrypt(fields[2], fields[1], key)
			if err != nil {
				a.logger("open").Warn("decryption failed: ", err)
				return err
			}

			fmt.Fprintln(cc.OutOrStdout(), string(plain))
			return nil
		},
	}
	addKeyFlags(cmd)

	return cmd
}
