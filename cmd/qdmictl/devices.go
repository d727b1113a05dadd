package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mqss-project/qdmi-go/client"
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

func newDevicesCmd(flags *rootFlags) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List loaded devices and their sites/operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := openDriver(ctx, flags)
			if err != nil {
				return err
			}
			defer d.Shutdown(ctx)

			c, status := client.New(d)
			if status.IsError() {
				return fmt.Errorf("could not build client: %s", status)
			}

			for _, h := range d.Registry.Handles() {
				name, _ := c.DeviceName(h)
				mode, _ := d.Registry.Mode(h)

				nSites, _ := c.QuerySites(h, nil)
				nOps, _ := c.QueryOperations(h, nil)

				nameBuf := make([]byte, mustProbe(c.QueryDeviceProperty(h, qdmi.PropName, nil)))
				c.QueryDeviceProperty(h, qdmi.PropName, nameBuf)

				fmt.Printf("%s  %-24s  mode=%-10s  sites=%d  operations=%d  reported_name=%q\n",
					h, name, mode, nSites, nOps, string(nameBuf))

				if !verbose {
					continue
				}

				sites, status := siteList(c, h)
				if status.IsError() {
					fmt.Printf("    sites: query_get_sites: %s\n", status)
				} else {
					fmt.Printf("    sites: %v\n", sites)
				}

				ops, status := operationList(c, h)
				if status.IsError() {
					fmt.Printf("    operations: query_get_operations: %s\n", status)
				} else {
					fmt.Printf("    operations: %v\n", ops)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also list each device's site and operation handles")
	return cmd
}

func mustProbe(n int, status qdmi.StatusCode) int {
	if status.IsError() {
		return 0
	}
	return n
}

// siteList probes and fills a device's site handles in one call.
func siteList(c *client.Client, h qdmi.DeviceHandle) ([]device.SiteHandle, qdmi.StatusCode) {
	n, status := c.QuerySites(h, nil)
	if status.IsError() {
		return nil, status
	}
	sites := make([]device.SiteHandle, n)
	if _, status := c.QuerySites(h, sites); status.IsError() {
		return nil, status
	}
	return sites, qdmi.StatusSuccess
}

// operationList probes and fills a device's operation handles in one call.
func operationList(c *client.Client, h qdmi.DeviceHandle) ([]device.OperationHandle, qdmi.StatusCode) {
	n, status := c.QueryOperations(h, nil)
	if status.IsError() {
		return nil, status
	}
	ops := make([]device.OperationHandle, n)
	if _, status := c.QueryOperations(h, ops); status.IsError() {
		return nil, status
	}
	return ops, qdmi.StatusSuccess
}
