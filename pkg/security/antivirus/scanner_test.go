package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers zPING and zINSTREAM; payloads containing "EICAR" are reported infected.
func fakeClamd(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveClamd(conn)
		}
	}()
	return ln.Addr().String()
}

func serveClamd(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	cmd, err := r.ReadString(0)
	if err != nil {
		return
	}
	switch cmd {
	case "zPING\x00":
		conn.Write([]byte("PONG\x00"))
	case "zINSTREAM\x00":
		var payload []byte
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(r, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			chunk := make([]byte, n)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return
			}
			payload = append(payload, chunk...)
		}
		if bytes.Contains(payload, []byte("EICAR")) {
			conn.Write([]byte("stream: Eicar-Test-Signature FOUND\x00"))
			return
		}
		conn.Write([]byte("stream: OK\x00"))
	}
}

func TestClamAVScanner(t *testing.T) {
	addr := fakeClamd(t)
	scanner := NewClamAVScanner(addr, 2*time.Second)
	ctx := context.Background()

	assert.True(t, scanner.Available(ctx))

	clean := scanner.Scan(ctx, "cv.txt", []byte("plain resume"))
	assert.False(t, clean.Infected)
	assert.NoError(t, clean.Error)
	assert.Equal(t, "clamav", clean.ScannerName)

	infected := scanner.Scan(ctx, "cv.txt", []byte("X5O!P%@AP EICAR test"))
	assert.True(t, infected.Infected)
	assert.Equal(t, "Eicar-Test-Signature", infected.ThreatName)
}

func TestClamAVScannerFailsClosedWhenUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	scanner := NewClamAVScanner(addr, 500*time.Millisecond)
	assert.False(t, scanner.Available(context.Background()))

	res := scanner.Scan(context.Background(), "cv.pdf", []byte("%PDF"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}

func TestParseClamReply(t *testing.T) {
	res := parseClamReply(ScanResult{}, "stream: Size limit exceeded ERROR")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)

	res = parseClamReply(ScanResult{}, "garbage")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)

	res = parseClamReply(ScanResult{}, "stream: OK\x00")
	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)
}

type stubScanner struct {
	available bool
	result    ScanResult
	calls     int
}

func (s *stubScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	s.calls++
	return s.result
}
func (s *stubScanner) Name() string                       { return "stub" }
func (s *stubScanner) Available(ctx context.Context) bool { return s.available }

func TestChainScanner(t *testing.T) {
	ctx := context.Background()

	t.Run("clean when every scanner passes", func(t *testing.T) {
		a, b := &stubScanner{available: true}, &stubScanner{available: true}
		res := NewChainScanner(a, b).Scan(ctx, "cv.pdf", nil)
		assert.False(t, res.Infected)
		assert.Equal(t, 1, a.calls)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("stops at first detection", func(t *testing.T) {
		a := &stubScanner{available: true, result: ScanResult{Infected: true, ThreatName: "x"}}
		b := &stubScanner{available: true}
		res := NewChainScanner(a, b).Scan(ctx, "cv.pdf", nil)
		assert.True(t, res.Infected)
		assert.Equal(t, 0, b.calls)
	})

	t.Run("fails closed without available scanners", func(t *testing.T) {
		chain := NewChainScanner(&stubScanner{available: false})
		assert.False(t, chain.Available(ctx))
		res := chain.Scan(ctx, "cv.pdf", nil)
		assert.True(t, res.Infected)
		assert.ErrorIs(t, res.Error, ErrNoScanner)
	})

	t.Run("noop is always clean", func(t *testing.T) {
		res := NewChainScanner(NewNoOpScanner()).Scan(ctx, "cv.pdf", []byte("EICAR"))
		assert.False(t, res.Infected)
	})
}
