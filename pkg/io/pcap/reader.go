// Package pcap reads traffic-intensity profiles from PCAP files or live interfaces.
package pcap

import (
	"context"
	"errors"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"

	"github.com/hed1ad/gocfar/pkg/io/traffic"
)

// Reader bins captured packets into profiles of a fixed number of cells.
type Reader struct {
	handle *pcap.Handle
	binner *traffic.Binner
	frame  int
	isLive bool
}

// NewFileReader creates a reader for PCAP files. Streamed profiles have
// frame bins each.
func NewFileReader(filename string, binner *traffic.Binner, frame int) (*Reader, error) {
	handle, err := pcap.OpenOffline(filename)
	if err != nil {
		return nil, err
	}

	return &Reader{
		handle: handle,
		binner: binner,
		frame:  frame,
		isLive: false,
	}, nil
}

// NewLiveReader creates a reader for live packet capture.
func NewLiveReader(iface string, snaplen int32, promisc bool, timeout time.Duration, binner *traffic.Binner, frame int) (*Reader, error) {
	handle, err := pcap.OpenLive(iface, snaplen, promisc, timeout)
	if err != nil {
		return nil, err
	}

	return &Reader{
		handle: handle,
		binner: binner,
		frame:  frame,
		isLive: true,
	}, nil
}

// SetFilter applies a BPF filter to the capture.
func (r *Reader) SetFilter(expr string) error {
	if r.handle == nil {
		return errors.New("reader not initialized")
	}
	return r.handle.SetBPFFilter(expr)
}

// Read bins every packet in the capture and returns it as one profile.
// Live captures never end, so use Stream for them.
func (r *Reader) Read() ([][]float64, error) {
	if r.handle == nil {
		return nil, errors.New("reader not initialized")
	}
	if r.isLive {
		return nil, errors.New("read requires an offline capture")
	}

	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		r.binner.Add(packet)
	}

	return [][]float64{r.binner.Profile()}, nil
}

// Stream emits a profile each time frame bins have closed.
func (r *Reader) Stream(ctx context.Context) (<-chan []float64, error) {
	if r.handle == nil {
		return nil, errors.New("reader not initialized")
	}
	if r.frame <= 0 {
		return nil, errors.New("frame size must be positive")
	}

	out := make(chan []float64, 16)
	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case packet, ok := <-packetSource.Packets():
				if !ok {
					return
				}
				if !r.binner.Add(packet) {
					continue
				}
				for r.binner.Ready(r.frame) {
					select {
					case out <- r.binner.Drain(r.frame):
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.handle != nil {
		r.handle.Close()
	}
	return nil
}
