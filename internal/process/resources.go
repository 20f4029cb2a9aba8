package process

import (
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"

	"github.com/reciperun/kitchen/internal/kitlog"
)

// defaultSampleInterval is how often the resource-usage reporter task polls
// the child's CPU/RSS (spec.md §4.7's "periodic resource usage" task).
const defaultSampleInterval = 2 * time.Second

// sampleResources is the fourth of the supervisor's four cooperative
// tasks: it ticks on its own schedule, sampling the child PID via
// gopsutil until stop fires, and logs at DEBUG so it never competes with
// the child's own stdout/stderr at INFO/WARNING.
func sampleResources(pid int, interval time.Duration, log *kitlog.Logger, stop <-chan struct{}) {
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	proc, err := gopsproc.NewProcess(int32(pid))
	if err != nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cpuPct, err := proc.CPUPercent()
			if err != nil {
				continue
			}
			memInfo, err := proc.MemoryInfo()
			rss := uint64(0)
			if err == nil && memInfo != nil {
				rss = memInfo.RSS
			}
			log.Debug("pid=%d cpu=%.1f%% rss=%dMB", pid, cpuPct, rss/(1024*1024))
		}
	}
}
