package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of the machine the reel renders on
type HostStats struct {
	PhysicalCores int
	LogicalCores  int
	MemTotal      uint64
	MemAvailable  uint64
	MemUsed       float64 // percent
}

// ReadHostStats queries CPU and memory via gopsutil
func ReadHostStats() (HostStats, error) {
	var s HostStats
	logical, err := cpu.Counts(true)
	if err != nil {
		return s, fmt.Errorf("cpu counts: %w", err)
	}
	physical, err := cpu.Counts(false)
	if err != nil {
		physical = logical
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, fmt.Errorf("virtual memory: %w", err)
	}
	s.LogicalCores = logical
	s.PhysicalCores = physical
	s.MemTotal = vm.Total
	s.MemAvailable = vm.Available
	s.MemUsed = vm.UsedPercent
	return s, nil
}

func (s HostStats) String() string {
	return fmt.Sprintf("CPU: %d/%d ядер | RAM: %.1f/%.1f ГБ свободно (занято %.0f%%)",
		s.PhysicalCores, s.LogicalCores,
		float64(s.MemAvailable)/(1<<30), float64(s.MemTotal)/(1<<30), s.MemUsed)
}

// RecommendedWorkers sizes the render pool: one worker per logical core,
// capped so that in-flight frames use at most a quarter of free memory.
func RecommendedWorkers(frameBytes int) int {
	stats, err := ReadHostStats()
	if err != nil {
		return runtime.NumCPU()
	}
	return workersFor(stats, frameBytes)
}

func workersFor(s HostStats, frameBytes int) int {
	workers := s.LogicalCores
	if workers < 1 {
		workers = 1
	}
	if frameBytes > 0 && s.MemAvailable > 0 {
		// each worker holds its frame plus one queued for the encoder
		byMem := int(s.MemAvailable / 4 / uint64(2*frameBytes))
		if byMem < workers {
			workers = byMem
		}
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
