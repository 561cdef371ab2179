package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arf-rpc/toolbox/collections"
	"github.com/arf-rpc/toolbox/ident"
	"github.com/arf-rpc/toolbox/locks"
	"github.com/arf-rpc/toolbox/logger"
)

func newPipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipe",
		Short: "Turn every line of stdin into an identifier",
		Long: `Reads stdin line by line. Lines are fanned out to a pool of producers
which push them onto a queue; a single consumer drains the queue and prints
one identifier per line. With more than one worker, output order is not
guaranteed. Lines without letters or digits are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			flags := cc.Flags()

			var merr error

			workers, err := flags.GetInt("workers")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			maxLength, err := flags.GetInt("max-length")
			if err != nil {
				merr = multierror.Append(merr, err)
			}
			if workers < 1 {
				merr = multierror.Append(merr, fmt.Errorf("workers must be at least 1, got %d", workers))
			}

			if merr != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, merr)
			}

			return runPipe(cc.Context(), cc.InOrStdin(), cc.OutOrStdout(), a.logger("pipe"), workers, maxLength)
		},
	}
	cmd.Flags().IntP("workers", "w", 4, "Number of producer goroutines")
	cmd.Flags().Int("max-length", 0, "Cap the normalized text at this many characters")

	return cmd
}

const readBlockSize = 32 * 1024

func runPipe(ctx context.Context, in io.Reader, out io.Writer, log *logger.Logger, workers, maxLength int) error {
	lr := log.Logr()
	q := collections.NewQueue[string](collections.WithQueueLogger(lr))
	outMu := locks.NewMutex(locks.WithName("stdout"), locks.WithMutexLogger(lr))

	g, ctx := errgroup.WithContext(ctx)
	lines := make(chan string)
	blocks := collections.NewBlockReader()

	g.Go(func() error {
		defer blocks.Close()

		buf := make([]byte, readBlockSize)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				blocks.Enqueue(bytes.Clone(buf[:n]))
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed reading input: %w", err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	})

	g.Go(func() error {
		defer close(lines)

		sc := bufio.NewScanner(blocks)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return sc.Err()
	})

	var producers errgroup.Group
	for range workers {
		producers.Go(func() error {
			for line := range lines {
				q.Enqueue(line)
			}
			return nil
		})
	}
	g.Go(func() error {
		err := producers.Wait()
		q.Close()
		return err
	})

	var written int
	g.Go(func() error {
		for line := range q.DrainContext(ctx) {
			id := ident.ToID(line, maxLength)
			if id == "" {
				log.Trace("skipping line without identifier characters: ", line)
				continue
			}

			if err := outMu.Acquire(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(out, id)
			outMu.Release()
			if err != nil {
				return fmt.Errorf("failed writing output: %w", err)
			}
			written++
		}
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Debug("wrote ", written, " identifiers using ", workers, " producers")

	return nil
}
