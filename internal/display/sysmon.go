package display

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultSysmonInterval is how often CPU and memory usage are sampled.
const DefaultSysmonInterval = 2 * time.Second

// SystemStats is host-wide resource usage in percent.
type SystemStats struct {
	CPU    float64
	Memory float64
}

// ReadSystemStats samples host CPU and memory usage. CPU is measured
// since the previous call, so the first reading may be zero.
func ReadSystemStats() SystemStats {
	var stats SystemStats

	if pct, err := cpu.Percent(0, false); err != nil {
		log.Printf("cpu usage: %v", err)
	} else if len(pct) > 0 {
		stats.CPU = pct[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		log.Printf("memory usage: %v", err)
	} else {
		stats.Memory = vm.UsedPercent
	}

	return stats
}

type sysmonMsg SystemStats

func sysmonCmd(interval time.Duration, sample func() SystemStats) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return sysmonMsg(sample())
	})
}
