package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/hed1ad/gocfar/pkg/io/pcap"
	"github.com/hed1ad/gocfar/pkg/io/traffic"
)

func newCaptureCmd(root *rootOptions) *cobra.Command {
	var (
		file     string
		iface    string
		bpf      string
		protocol string
		bin      time.Duration
		horizon  time.Duration
		frame    int
		packets  bool
		snaplen  int32
	)

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Detect traffic bursts in a packet capture",
		Long: `Capture bins packets from a PCAP file or a live interface into fixed
time bins and scans every --frame bins as one profile, flagging bins whose
traffic stands out from their neighbours. A trailing partial frame is not
scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (iface == "") {
				return errors.New("exactly one of --file or --iface is required")
			}

			det, err := root.detector()
			if err != nil {
				return err
			}

			binOpts := []traffic.Option{traffic.WithHorizon(horizon)}
			if protocol != "" {
				layer, err := traffic.ParseLayer(protocol)
				if err != nil {
					return err
				}
				binOpts = append(binOpts, traffic.WithLayer(layer))
			}
			if packets {
				binOpts = append(binOpts, traffic.WithPacketCount())
			}
			binner, err := traffic.NewBinner(bin, binOpts...)
			if err != nil {
				return err
			}

			var r *pcap.Reader
			if file != "" {
				r, err = pcap.NewFileReader(file, binner, frame)
			} else {
				r, err = pcap.NewLiveReader(iface, snaplen, true, time.Second, binner, frame)
			}
			if err != nil {
				return err
			}
			defer r.Close()

			if bpf != "" {
				if err := r.SetFilter(bpf); err != nil {
					return err
				}
			}

			profiles, err := r.Stream(cmd.Context())
			if err != nil {
				return err
			}

			w, err := root.writer()
			if err != nil {
				return err
			}
			if err := pipeline(cmd.Context(), det, profiles, w); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&file, "file", "f", "", "PCAP file to read")
	flags.StringVar(&iface, "iface", "", "interface for live capture")
	flags.StringVar(&bpf, "bpf", "", "BPF filter expression")
	flags.StringVar(&protocol, "protocol", "", "only count packets with this layer (tcp, udp, icmp, ipv4, ipv6, dns)")
	flags.DurationVar(&bin, "bin", 100*time.Millisecond, "time bin width")
	flags.DurationVar(&horizon, "horizon", traffic.DefaultHorizon, "drop packets this far past the newest bin")
	flags.IntVar(&frame, "frame", 256, "bins per scanned profile")
	flags.BoolVar(&packets, "packets", false, "count packets instead of bytes")
	flags.Int32Var(&snaplen, "snaplen", 1600, "live capture snapshot length")

	return cmd
}
