package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// INSTREAM chunk size, must stay below clamd's StreamMaxLength.
const clamChunkSize = 1 << 20

// ClamAVScanner talks to a clamd daemon over TCP or a Unix socket.
type ClamAVScanner struct {
	address string
	timeout time.Duration
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner accepts "host:port" or an absolute socket path such as
// "/var/run/clamav/clamd.sock".
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Available sends PING and expects PONG.
func (c *ClamAVScanner) Available(ctx context.Context) bool {
	conn, err := c.dial(ctx, 5*time.Second)
	if err != nil {
		return false
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return false
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	return strings.HasPrefix(string(buf[:n]), "PONG")
}

// Scan streams data with the zINSTREAM command.
// Replies: "stream: OK", "stream: <threat> FOUND", "<message> ERROR".
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(format string, err error) ScanResult {
		result.Infected = true
		result.Error = fmt.Errorf(format, err)
		return result
	}

	conn, err := c.dial(ctx, c.timeout)
	if err != nil {
		return fail("failed to connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail("failed to send command: %w", err)
	}

	size := make([]byte, 4)
	for off := 0; off < len(data); off += clamChunkSize {
		end := off + clamChunkSize
		if end > len(data) {
			end = len(data)
		}
		binary.BigEndian.PutUint32(size, uint32(end-off))
		if _, err := conn.Write(size); err != nil {
			return fail("failed to send chunk size: %w", err)
		}
		if _, err := conn.Write(data[off:end]); err != nil {
			return fail("failed to send file data: %w", err)
		}
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail("failed to send end marker: %w", err)
	}

	reply, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil && len(reply) == 0 {
		return fail("failed to read response: %w", err)
	}
	return parseClamReply(result, string(reply))
}

func parseClamReply(result ScanResult, reply string) ScanResult {
	reply = strings.TrimSpace(strings.TrimRight(reply, "\x00"))
	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(reply, ":"); ok {
			result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
		}
	case strings.HasSuffix(reply, "ERROR"):
		result.Infected = true
		result.Error = fmt.Errorf("scan error: %s", reply)
	case !strings.HasSuffix(reply, "OK"):
		result.Infected = true
		result.Error = fmt.Errorf("unexpected clamd reply: %q", reply)
	}
	return result
}
