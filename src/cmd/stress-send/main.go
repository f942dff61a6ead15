package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"onscreen-translator/src/singleinstance"
)

type stressOptions struct {
	n        int
	command  string
	deadline time.Duration
}

type summary struct {
	launched   int
	ok         int32
	rejected   int32
	noResident int32
	elapsed    time.Duration
}

func (s summary) String() string {
	return fmt.Sprintf("launched=%d ok=%d rejected=%d no-resident=%d elapsed=%s",
		s.launched, s.ok, s.rejected, s.noResident, s.elapsed)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-send",
		Short:         "Stress test command delegation to the running translator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().StringVar(&opts.command, "command", "circle", "circle|retranslate|close")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions, out io.Writer) error {
	command, err := singleinstance.ParseCommand(opts.command)
	if err != nil {
		return err
	}
	s := stress(opts.n, command, opts.deadline)
	fmt.Fprintln(out, s)
	return nil
}

func stress(n int, command singleinstance.Command, deadline time.Duration) summary {
	var wg sync.WaitGroup
	s := summary{launched: n}

	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), deadline)
			defer cancel()
			delegated, err := singleinstance.Send(ctx, command)
			switch {
			case !delegated:
				atomic.AddInt32(&s.noResident, 1)
			case err != nil:
				atomic.AddInt32(&s.rejected, 1)
			default:
				atomic.AddInt32(&s.ok, 1)
			}
		}()
	}
	wg.Wait()
	s.elapsed = time.Since(start)
	return s
}
