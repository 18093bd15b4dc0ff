package cmd

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
)

// profile captures a CPU profile for the lifetime of one command and a heap
// snapshot when it finishes. Files are named <prefix>.cpu.prof and <prefix>.mem.prof.
type profile struct {
	prefix string
	cpu    *os.File
}

// activeProfile is started by sharedSetup and stopped from main.
var activeProfile = &profile{}

func (p *profile) start(prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || p.cpu != nil {
		return nil
	}
	f, err := os.Create(prefix + ".cpu.prof")
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	p.prefix, p.cpu = prefix, f
	_, _ = fmt.Fprintf(os.Stderr, "⏱️  Profiling to %s.cpu.prof and %s.mem.prof\n", prefix, prefix)
	return nil
}

func (p *profile) stop() error {
	if p.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := p.cpu.Close()
	p.cpu = nil

	mem, err := os.Create(p.prefix + ".mem.prof")
	if err != nil {
		return err
	}
	defer func() { _ = mem.Close() }()
	if err := pprof.WriteHeapProfile(mem); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	if cpuErr != nil {
		return fmt.Errorf("cpu profile: %w", cpuErr)
	}
	_, _ = fmt.Fprintf(os.Stderr, "⏱️  Inspect with 'go tool pprof %s.cpu.prof'\n", p.prefix)
	return nil
}
