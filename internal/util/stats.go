package util

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"
)

// ──────────────────────────────────────────────────────────────────────────────
// Global stats singleton
// ──────────────────────────────────────────────────────────────────────────────

// Stats is the process-wide session traffic counter.
var Stats = &stats{}

type stats struct {
	Commands  atomic.Int64 // cumulative commands executed since process start
	Packets   atomic.Int64 // cumulative response packets received
	BytesSent atomic.Int64 // cumulative bytes written to the server
	BytesRecv atomic.Int64 // cumulative bytes read from the server
}

func (s *stats) AddCommand()   { s.Commands.Add(1) }
func (s *stats) AddPacket()    { s.Packets.Add(1) }
func (s *stats) AddSent(n int) { s.BytesSent.Add(int64(n)) }
func (s *stats) AddRecv(n int) { s.BytesRecv.Add(int64(n)) }

// ──────────────────────────────────────────────────────────────────────────────
// Periodic reporter
// ──────────────────────────────────────────────────────────────────────────────

// StartStatsReporter launches a goroutine that logs session statistics
// every 10 seconds while there is activity. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		var prevSent, prevRecv, prevCmds, prevPkts int64
		for {
			select {
			case <-ticker.C:
				cmds := Stats.Commands.Load()
				pkts := Stats.Packets.Load()
				sent := Stats.BytesSent.Load()
				recv := Stats.BytesRecv.Load()

				if cmds > prevCmds || pkts > prevPkts {
					pterm.DefaultLogger.Info(formatStats(
						float64(sent-prevSent)/10.0,
						float64(recv-prevRecv)/10.0,
						cmds-prevCmds,
						pkts-prevPkts,
					))
				}

				prevSent = sent
				prevRecv = recv
				prevCmds = cmds
				prevPkts = pkts

			case <-ctx.Done():
				return
			}
		}
	}()
}

// byteUnits defines the units for formatting byte counts in a human-readable way.
var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// formatBytes formats a byte count into a human-readable string with fixed width (exactly 8 chars)
// for example: "99.0   B", " 1.5 KiB", " 0.1 MiB", "98.9 GiB", etc.
func formatBytes(b float64) string {
	unitIdx := 0

	// to prevent "100.0 KiB", which is 9 chars
	for b > 99 && unitIdx < 5 {
		b /= 1024
		unitIdx++
	}

	return fmt.Sprintf("%4.1f %3s", b, byteUnits[unitIdx])
}

// formatStats returns a formatted string of the current stats for display in the logger.
func formatStats(outS, inS float64, cmds, pkts int64) string {
	return fmt.Sprintf("Out: %s/s | In: %s/s | Cmds: %2d | Pkts: %2d",
		formatBytes(outS),
		formatBytes(inS),
		cmds,
		pkts,
	)
}
