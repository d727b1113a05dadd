package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mqss-project/qdmi-go/client"
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	var deviceIdx int
	var shots int

	cmd := &cobra.Command{
		Use:   "run <program-file>",
		Short: "Submit a QASM program, wait for it, and print its shot histogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, flags, func(c *client.Client, h qdmi.DeviceHandle) error {
				job, status := c.CreateJob(h, qdmi.ProgramQASM, program)
				if status.IsError() {
					return fmt.Errorf("create_job: %s", status)
				}
				defer c.FreeJob(h, job)

				if shots > 0 {
					if status := c.SetParameter(h, job, "shots", []byte(strconv.Itoa(shots))); status.IsError() {
						return fmt.Errorf("set_parameter: %s", status)
					}
				}

				if status := c.SubmitJob(cmd.Context(), h, job); status.IsError() {
					return fmt.Errorf("submit_job: %s", status)
				}

				if status := c.WaitJob(cmd.Context(), h, job); status.IsError() {
					return fmt.Errorf("wait_job: %s", status)
				}

				jobStatus, status := c.CheckJob(h, job)
				if status.IsError() {
					return fmt.Errorf("check_job: %s", status)
				}
				fmt.Println("job status:", jobStatus)
				if jobStatus != qdmi.JobDone {
					return nil
				}

				keys, values, err := histogram(c, h, job)
				if err != nil {
					return err
				}
				for i, k := range keys {
					fmt.Printf("%s: %d\n", k, values[i])
				}
				return nil
			}, strconv.Itoa(deviceIdx))
		},
	}
	cmd.Flags().IntVar(&deviceIdx, "device", 0, "device index to submit to")
	cmd.Flags().IntVar(&shots, "shots", 10, "shot count (0 leaves the device's default)")
	return cmd
}

// histogram probes and fills a job's HIST_KEYS/HIST_VALUES result pair.
func histogram(c *client.Client, h qdmi.DeviceHandle, job device.JobHandle) ([]string, []int64, error) {
	nk, status := c.GetData(h, job, qdmi.ResultHistKeys, nil)
	if status.IsError() {
		return nil, nil, fmt.Errorf("get_data(HIST_KEYS) probe: %s", status)
	}
	keysBuf := make([]byte, nk)
	if _, status := c.GetData(h, job, qdmi.ResultHistKeys, keysBuf); status.IsError() {
		return nil, nil, fmt.Errorf("get_data(HIST_KEYS) fill: %s", status)
	}

	nv, status := c.GetData(h, job, qdmi.ResultHistValues, nil)
	if status.IsError() {
		return nil, nil, fmt.Errorf("get_data(HIST_VALUES) probe: %s", status)
	}
	valuesBuf := make([]byte, nv)
	if _, status := c.GetData(h, job, qdmi.ResultHistValues, valuesBuf); status.IsError() {
		return nil, nil, fmt.Errorf("get_data(HIST_VALUES) fill: %s", status)
	}

	keys := device.DecodeStringList(keysBuf)
	values := decodeInt64List(valuesBuf)
	return keys, values, nil
}

func decodeInt64List(b []byte) []int64 {
	vs := make([]int64, len(b)/8)
	for i := range vs {
		vs[i] = device.DecodeInt64(b[8*i : 8*i+8])
	}
	return vs
}
