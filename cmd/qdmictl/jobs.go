package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newJobsCmd lists the contents of the on-disk job ledger without tearing
// into the badger database directly. The "run" command (with
// --job-ledger) records its job but frees it before exiting, which
// purges the record, so the ledger keeps entries only for jobs that were
// never freed, such as those of an interrupted run.
func newJobsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs recorded in the on-disk job ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDriver(ctx, flags)
			if err != nil {
				return err
			}
			defer d.Shutdown(ctx)

			if d.Jobs == nil {
				return fmt.Errorf("no job ledger open; pass --job-ledger")
			}

			records, err := d.Jobs.ListAll()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("job ledger is empty")
				return nil
			}

			for _, rec := range records {
				name, _ := d.Registry.Name(rec.Device)
				fmt.Printf("%s  job=%-6d  device=%-24s  format=%-6s  shots=%-6d  status=%s\n",
					rec.Device, uint32(rec.Job), name, rec.Format, rec.NumShots, rec.Status)
			}
			return nil
		},
	}
	return cmd
}
