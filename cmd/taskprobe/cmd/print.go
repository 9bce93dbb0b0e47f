package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tracelab/taskprobe/probe"
	"github.com/tracelab/taskprobe/tracing"
)

var printProbes []string

var printCmd = &cobra.Command{
	Use:   "print <pid>",
	Short: "Print every event of an instrumented process until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pid %q", args[0])
		}

		client, err := probe.DialPid(pid)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(
			context.Background(), os.Interrupt)
		defer stop()

		printer := tracing.NewPrintTracer(os.Stdout)
		err = client.Stream(ctx, printProbes, func(ev probe.Event) {
			tracing.Dispatch(printer, ev)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	},
}

func init() {
	printCmd.Flags().StringSliceVar(&printProbes, "probe", nil,
		"probe names to subscribe to (default: all)")
	rootCmd.AddCommand(printCmd)
}
