package cmd

import (
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/spf13/cobra"

	"github.com/tracelab/taskprobe/probe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List instrumented processes on this host.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		pids, err := probe.Discover()
		if err != nil {
			return err
		}

		if len(pids) == 0 {
			fmt.Println("no instrumented processes found")
			return nil
		}

		for _, pid := range pids {
			name := processName(pid)
			fmt.Printf("%-8d %s\n", pid, name)
		}

		return nil
	},
}

var probesCmd = &cobra.Command{
	Use:   "probes <pid>",
	Short: "List the probes exposed by one instrumented process.",
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

		provider, probes, err := client.List()
		if err != nil {
			return err
		}

		fmt.Printf("provider: %s\n", provider)
		for _, p := range probes {
			if len(p.Args) == 0 {
				fmt.Printf("  %s()\n", p.Name)
				continue
			}
			fmt.Printf("  %s(%s)\n", p.Name, p.Args[0])
		}

		return nil
	},
}

func processName(pid int) string {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "(gone)"
	}

	name, err := proc.Name()
	if err != nil {
		return "(unknown)"
	}

	return name
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(probesCmd)
}
