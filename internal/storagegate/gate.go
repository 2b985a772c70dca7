// Package storagegate reports whether the managed storage root has room
// to store, retrieve, or export instances.
package storagegate

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v4/disk"
)

const (
	// DefaultWatermarkPercent is the default used-space ceiling.
	DefaultWatermarkPercent = 85.0
	// DefaultReservedBytes is the default minimum free space required
	// regardless of the watermark percentage.
	DefaultReservedBytes uint64 = 5 * 1024 * 1024 * 1024 // 5 GiB
)

// Gate reports admission decisions for the managed storage root. All
// three operations currently evaluate the same predicate; they are kept
// distinct because a future policy may diverge per-operation.
type Gate interface {
	CanStore() bool
	CanExport() bool
	CanRetrieve() bool
	AvailableBytes() (uint64, error)
}

// DiskGate is a Gate backed by the filesystem holding the managed root.
type DiskGate struct {
	root             string
	watermarkPercent float64
	reservedBytes    uint64
	logger           *log.Logger
}

// New creates a DiskGate for root. watermarkPercent <= 0 and
// reservedBytes == 0 fall back to their package defaults.
func New(root string, watermarkPercent float64, reservedBytes uint64, logger *log.Logger) *DiskGate {
	if watermarkPercent <= 0 {
		watermarkPercent = DefaultWatermarkPercent
	}
	if reservedBytes == 0 {
		reservedBytes = DefaultReservedBytes
	}
	return &DiskGate{
		root:             root,
		watermarkPercent: watermarkPercent,
		reservedBytes:    reservedBytes,
		logger:           logger,
	}
}

// admit evaluates usedPercent < watermarkPercent AND availableBytes >
// reservedBytes, per spec §4.1. Cheap enough to call per association:
// disk.Usage is a single statfs syscall.
func (g *DiskGate) admit() bool {
	usage, err := disk.Usage(g.root)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("storage gate: disk usage check failed", "root", g.root, "error", err)
		}
		return false
	}
	return usage.UsedPercent < g.watermarkPercent && usage.Free > g.reservedBytes
}

// CanStore implements Gate.
func (g *DiskGate) CanStore() bool { return g.admit() }

// CanExport implements Gate.
func (g *DiskGate) CanExport() bool { return g.admit() }

// CanRetrieve implements Gate.
func (g *DiskGate) CanRetrieve() bool { return g.admit() }

// AvailableBytes returns the actual free space under root, independent
// of the watermark predicate.
func (g *DiskGate) AvailableBytes() (uint64, error) {
	usage, err := disk.Usage(g.root)
	if err != nil {
		return 0, fmt.Errorf("disk usage for %s: %w", g.root, err)
	}
	return usage.Free, nil
}
