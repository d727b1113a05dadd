package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mqss-project/qdmi-go/client"
	"github.com/mqss-project/qdmi-go/device"
	"github.com/mqss-project/qdmi-go/qdmi"
)

var deviceProps = map[string]qdmi.DeviceProperty{
	"name": qdmi.PropName, "device_version": qdmi.PropDeviceVersion,
	"library_version": qdmi.PropLibraryVersion, "num_qubits": qdmi.PropNumQubits,
	"status": qdmi.PropDeviceStatus, "coupling_map": qdmi.PropCouplingMap,
	"gate_set": qdmi.PropGateSet,
}

var siteProps = map[string]qdmi.SiteProperty{
	"t1": qdmi.PropT1Time, "t2": qdmi.PropT2Time, "index": qdmi.PropSiteIndex,
}

var operationProps = map[string]qdmi.OperationProperty{
	"name": qdmi.PropOperationName, "qubits_num": qdmi.PropOperationQubitsNum,
	"duration": qdmi.PropOperationDuration, "fidelity": qdmi.PropOperationFidelity,
}

func newPropsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "props", Short: "Probe device/site/operation properties"}

	cmd.AddCommand(&cobra.Command{
		Use:   "device <device-index> <key>",
		Short: "Probe a device-level property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := deviceProps[args[1]]
			if !ok {
				return fmt.Errorf("unknown device property %q", args[1])
			}
			return withClient(cmd, flags, func(c *client.Client, h qdmi.DeviceHandle) error {
				n, status := c.QueryDeviceProperty(h, key, nil)
				if status.IsError() {
					return fmt.Errorf("probe: %s", status)
				}
				buf := make([]byte, n)
				if _, status := c.QueryDeviceProperty(h, key, buf); status.IsError() {
					return fmt.Errorf("fill: %s", status)
				}
				printDecoded(args[1], buf)
				return nil
			}, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "site <device-index> <site-index> <key>",
		Short: "Probe a per-site property",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := siteProps[args[2]]
			if !ok {
				return fmt.Errorf("unknown site property %q", args[2])
			}
			site, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			return withClient(cmd, flags, func(c *client.Client, h qdmi.DeviceHandle) error {
				sh := device.SiteHandle(site)
				n, status := c.QuerySiteProperty(h, sh, key, nil)
				if status.IsError() {
					return fmt.Errorf("probe: %s", status)
				}
				buf := make([]byte, n)
				if _, status := c.QuerySiteProperty(h, sh, key, buf); status.IsError() {
					return fmt.Errorf("fill: %s", status)
				}
				printDecoded(args[2], buf)
				return nil
			}, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "operation <device-index> <op-index> <key> [site-a] [site-b]",
		Short: "Probe a per-operation property, optionally at a site placement",
		Args:  cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := operationProps[args[2]]
			if !ok {
				return fmt.Errorf("unknown operation property %q", args[2])
			}
			op, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			var sites []device.SiteHandle
			for _, a := range args[3:] {
				n, err := strconv.Atoi(a)
				if err != nil {
					return err
				}
				sites = append(sites, device.SiteHandle(n))
			}
			return withClient(cmd, flags, func(c *client.Client, h qdmi.DeviceHandle) error {
				oh := device.OperationHandle(op)
				n, status := c.QueryOperationProperty(h, oh, sites, key, nil)
				if status.IsError() {
					return fmt.Errorf("probe: %s", status)
				}
				buf := make([]byte, n)
				if _, status := c.QueryOperationProperty(h, oh, sites, key, buf); status.IsError() {
					return fmt.Errorf("fill: %s", status)
				}
				printDecoded(args[2], buf)
				return nil
			}, args[0])
		},
	})

	return cmd
}

// printDecoded renders a probed property buffer using the decoding its
// key name implies; numeric and string keys are distinguished by name
// since the wire protocol itself carries no type tag.
func printDecoded(key string, buf []byte) {
	switch key {
	case "name", "device_version", "library_version":
		fmt.Println(string(buf))
	case "gate_set":
		fmt.Println(device.DecodeStringList(buf))
	case "coupling_map":
		fmt.Println(device.DecodeSiteList(buf))
	case "num_qubits", "status", "qubits_num", "index":
		fmt.Println(device.DecodeInt64(buf))
	case "t1", "t2", "duration", "fidelity":
		fmt.Println(device.DecodeFloat64(buf))
	default:
		fmt.Printf("% x\n", buf)
	}
}

// withClient opens the driver, resolves deviceIndexArg to a device
// handle, and runs fn against it, always shutting the driver down
// afterward.
func withClient(cmd *cobra.Command, flags *rootFlags, fn func(*client.Client, qdmi.DeviceHandle) error, deviceIndexArg string) error {
	ctx := cmd.Context()
	d, err := openDriver(ctx, flags)
	if err != nil {
		return err
	}
	defer d.Shutdown(ctx)

	idx, err := strconv.Atoi(deviceIndexArg)
	if err != nil {
		return err
	}

	handles := d.Registry.Handles()
	if idx < 0 || idx >= len(handles) {
		return fmt.Errorf("device index %d out of range (%d devices loaded)", idx, len(handles))
	}

	c, status := client.New(d)
	if status.IsError() {
		return fmt.Errorf("could not build client: %s", status)
	}

	return fn(c, handles[idx])
}
