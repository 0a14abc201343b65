// Package traffic turns captured packets into traffic-intensity profiles
// that can be scanned like radar range profiles: each cell holds the bytes
// (or packets) observed in one fixed time bin.
package traffic

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// DefaultHorizon is how far past the newest open bin a packet may land
// before it is treated as a bad timestamp and dropped.
const DefaultHorizon = time.Hour

// Binner accumulates packets into fixed-width time bins.
// It is not safe for concurrent use.
type Binner struct {
	width     time.Duration
	horizon   time.Duration
	filter    gopacket.LayerType
	hasFilter bool
	packets   bool

	origin time.Time
	bins   []float64
}

// Option configures a Binner.
type Option func(*Binner)

// WithLayer only counts packets that contain layer t.
func WithLayer(t gopacket.LayerType) Option {
	return func(b *Binner) {
		b.filter = t
		b.hasFilter = true
	}
}

// WithPacketCount weights every packet as 1 instead of its length.
func WithPacketCount() Option {
	return func(b *Binner) {
		b.packets = true
	}
}

// WithHorizon drops packets more than d past the newest open bin.
func WithHorizon(d time.Duration) Option {
	return func(b *Binner) {
		b.horizon = d
	}
}

// NewBinner creates a binner with the given bin width.
func NewBinner(width time.Duration, opts ...Option) (*Binner, error) {
	if width <= 0 {
		return nil, fmt.Errorf("bin width must be positive, got %v", width)
	}

	b := &Binner{width: width, horizon: DefaultHorizon}
	for _, opt := range opts {
		opt(b)
	}
	if b.horizon < width {
		return nil, fmt.Errorf("horizon %v is shorter than the bin width %v", b.horizon, width)
	}
	return b, nil
}

// Add accounts packet p and reports whether it was counted. Packets without
// a timestamp or filtered out are dropped, as are packets older than the
// first open bin or beyond the horizon.
func (b *Binner) Add(p gopacket.Packet) bool {
	md := p.Metadata()
	if md == nil || md.Timestamp.IsZero() {
		return false
	}
	if b.hasFilter && p.Layer(b.filter) == nil {
		return false
	}

	if b.origin.IsZero() {
		b.origin = md.Timestamp.Truncate(b.width)
	}
	offset := md.Timestamp.Sub(b.origin)
	if offset < 0 {
		return false
	}

	idx := int(offset / b.width)
	if idx >= len(b.bins)+int(b.horizon/b.width) {
		return false
	}
	for len(b.bins) <= idx {
		b.bins = append(b.bins, 0)
	}
	b.bins[idx] += b.weight(p, md)
	return true
}

func (b *Binner) weight(p gopacket.Packet, md *gopacket.PacketMetadata) float64 {
	if b.packets {
		return 1
	}
	if md.Length > 0 {
		return float64(md.Length)
	}
	return float64(len(p.Data()))
}

// Len returns the number of bins opened so far.
func (b *Binner) Len() int {
	return len(b.bins)
}

// Ready reports whether the first n bins are closed, i.e. a later bin has
// already received a packet.
func (b *Binner) Ready(n int) bool {
	return len(b.bins) > n
}

// Drain removes and returns the first n bins, advancing the origin.
// It returns nil if fewer than n bins are open.
func (b *Binner) Drain(n int) []float64 {
	if n <= 0 || len(b.bins) < n {
		return nil
	}
	out := make([]float64, n)
	copy(out, b.bins[:n])
	b.bins = append(b.bins[:0], b.bins[n:]...)
	b.origin = b.origin.Add(time.Duration(n) * b.width)
	return out
}

// Profile returns a copy of every open bin.
func (b *Binner) Profile() []float64 {
	out := make([]float64, len(b.bins))
	copy(out, b.bins)
	return out
}

// Origin returns the start time of the first open bin.
func (b *Binner) Origin() time.Time {
	return b.origin
}

// ParseLayer maps a protocol name to the layer used by WithLayer.
func ParseLayer(name string) (gopacket.LayerType, error) {
	switch strings.ToLower(name) {
	case "tcp":
		return layers.LayerTypeTCP, nil
	case "udp":
		return layers.LayerTypeUDP, nil
	case "icmp", "icmpv4":
		return layers.LayerTypeICMPv4, nil
	case "ipv4":
		return layers.LayerTypeIPv4, nil
	case "ipv6":
		return layers.LayerTypeIPv6, nil
	case "dns":
		return layers.LayerTypeDNS, nil
	}
	return 0, fmt.Errorf("unknown protocol %q", name)
}
