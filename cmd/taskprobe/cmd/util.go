package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tracelab/taskprobe/probe"
	"github.com/tracelab/taskprobe/tracing"
)

var utilDuration time.Duration

var utilCmd = &cobra.Command{
	Use:   "util <pid>",
	Short: "Measure worker-thread utilization of an instrumented process.",
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

		if utilDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, utilDuration)
			defer cancel()
		}

		tracer := tracing.NewUtilizationTracer()
		kinds := []string{
			probe.KindWorkerThreadStart.String(),
			probe.KindWorkerThreadStop.String(),
			probe.KindWorkerThreadPark.String(),
			probe.KindWorkerThreadUnpark.String(),
		}

		err = client.Stream(ctx, kinds, func(ev probe.Event) {
			tracing.Dispatch(tracer, ev)
		})
		if err != nil && !errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		fmt.Printf("workers observed: %d\n", tracer.Workers())
		fmt.Printf("busy:   %v\n", tracer.BusyTime())
		fmt.Printf("parked: %v\n", tracer.ParkedTime())
		fmt.Printf("utilization: %.1f%%\n", tracer.Utilization()*100)

		return nil
	},
}

func init() {
	utilCmd.Flags().DurationVar(&utilDuration, "duration", 0,
		"stop collecting after this long (default: until interrupted)")
	rootCmd.AddCommand(utilCmd)
}
