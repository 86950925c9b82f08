// Package status collects host resource figures reported by `fairdice status`.
package status

import (
	"context"

	"github.com/LumeraProtocol/fairdice/pkg/logtrace"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// StorageInfo holds disk usage of the volume backing a path.
type StorageInfo struct {
	Path           string  `json:"path"`
	TotalBytes     uint64  `json:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
}

// HostInfo is a point-in-time view of the host.
type HostInfo struct {
	CPUCores       int32         `json:"cpu_cores"`
	MemTotalBytes  uint64        `json:"mem_total_bytes"`
	MemUsedBytes   uint64        `json:"mem_used_bytes"`
	MemUsedPercent float64       `json:"mem_used_percent"`
	Storage        []StorageInfo `json:"storage"`
}

// CollectHost gathers CPU, memory and storage figures. Failures are logged
// and leave the affected fields zero.
func CollectHost(ctx context.Context, paths []string) HostInfo {
	var info HostInfo

	if cores, err := cpu.Counts(true); err != nil {
		logtrace.Warn(ctx, "failed to get cpu core count", logtrace.Fields{logtrace.FieldError: err.Error()})
	} else {
		info.CPUCores = int32(cores)
	}

	if vmem, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		logtrace.Warn(ctx, "failed to get memory info", logtrace.Fields{logtrace.FieldError: err.Error()})
	} else {
		info.MemTotalBytes = vmem.Total
		info.MemUsedBytes = vmem.Used
		info.MemUsedPercent = vmem.UsedPercent
	}

	info.Storage = CollectStorage(ctx, paths)
	return info
}

// CollectStorage reports disk usage for each path. Paths that cannot be
// inspected are skipped.
func CollectStorage(ctx context.Context, paths []string) []StorageInfo {
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	out := make([]StorageInfo, 0, len(paths))
	for _, path := range paths {
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			logtrace.Warn(ctx, "failed to get storage info", logtrace.Fields{logtrace.FieldError: err.Error(), "path": path})
			continue
		}
		available := min(usage.Free, usage.Total)
		used := usage.Total - available
		pct := 0.0
		if usage.Total > 0 {
			pct = float64(used) / float64(usage.Total) * 100
		}
		out = append(out, StorageInfo{
			Path:           path,
			TotalBytes:     usage.Total,
			UsedBytes:      used,
			AvailableBytes: available,
			UsagePercent:   pct,
		})
	}
	return out
}
