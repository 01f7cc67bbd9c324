// Package wol sends Wake-on-LAN magic packets.
package wol

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
)

const DefaultBroadcastAddr = "255.255.255.255:9"

var ErrInvalidMAC = errors.New("invalid_mac")

// ParseMAC accepts a 48-bit address written with ':' or '-' separators, or as
// 12 bare hex digits.
func ParseMAC(s string) (net.HardwareAddr, error) {
	s = strings.TrimSpace(s)
	if len(s) == 12 {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
		}
		return net.HardwareAddr(b), nil
	}

	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMAC, s)
	}
	return hw, nil
}

// MagicPacket is six 0xFF bytes followed by the MAC repeated 16 times.
func MagicPacket(mac net.HardwareAddr) []byte {
	pkt := make([]byte, 0, 6+16*len(mac))
	for i := 0; i < 6; i++ {
		pkt = append(pkt, 0xFF)
	}
	for i := 0; i < 16; i++ {
		pkt = append(pkt, mac...)
	}
	return pkt
}

type Sender struct {
	addr string
}

// NewSender sends to addr, or to DefaultBroadcastAddr when addr is empty.
func NewSender(addr string) *Sender {
	if addr == "" {
		addr = DefaultBroadcastAddr
	}
	return &Sender{addr: addr}
}

func (s *Sender) Wake(ctx context.Context, mac string) error {
	hw, err := ParseMAC(mac)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(MagicPacket(hw)); err != nil {
		return fmt.Errorf("send magic packet: %w", err)
	}
	return nil
}
