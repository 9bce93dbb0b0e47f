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

var histDuration time.Duration

var histCmd = &cobra.Command{
	Use:   "hist <pid>",
	Short: "Collect a poll-duration histogram from an instrumented process.",
	Long: `hist subscribes to the task poll probes of the target process, ` +
		`correlates poll-start with poll-end per worker thread, and prints ` +
		`a power-of-two histogram of poll durations when interrupted or ` +
		`after --duration.`,
	Args: cobra.ExactArgs(1),
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

		if histDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, histDuration)
			defer cancel()
		}

		tracer := tracing.NewPollTimeTracer()
		kinds := []string{
			probe.KindTaskSpawn.String(),
			probe.KindTaskPollStart.String(),
			probe.KindTaskPollEnd.String(),
			probe.KindTaskTerminate.String(),
		}

		err = client.Stream(ctx, kinds, func(ev probe.Event) {
			tracing.Dispatch(tracer, ev)
		})
		if err != nil && !errors.Is(err, context.Canceled) &&
			!errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		fmt.Printf("polls observed: %d\n", tracer.PollCount())
		fmt.Printf("tasks completed: %d (avg total poll time %v)\n",
			tracer.CompletedTasks(), tracer.AverageTaskTime())
		fmt.Print(tracer.Histogram().String())

		return nil
	},
}

func init() {
	histCmd.Flags().DurationVar(&histDuration, "duration", 0,
		"stop collecting after this long (default: until interrupted)")
	rootCmd.AddCommand(histCmd)
}
