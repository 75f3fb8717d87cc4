package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// ErrProfile indicates a profile could not be started or written.
var ErrProfile = errors.New("profile")

// Profiler starts and stops the profiles enabled in its [Config].
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	cfg     Config
}

// Start sets the memory profile rate and begins CPU profiling if enabled.
func (p *Profiler) Start() error {
	if p.cfg.MemProfile != "" && p.cfg.MemProfileRate > 0 {
		runtime.MemProfileRate = p.cfg.MemProfileRate
	}

	if p.cfg.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.cfg.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfile, err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return fmt.Errorf("%w: starting CPU profile: %w", ErrProfile, errors.Join(err, f.Close()))
	}

	p.cpuFile = f

	slog.Debug("cpu profiling started", slog.String("path", p.cfg.CPUProfile))

	return nil
}

// Stop ends CPU profiling and writes the heap profile if enabled. It is safe
// to call when Start was not called.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: closing CPU profile: %w", ErrProfile, err))
		}

		p.cpuFile = nil
	}

	if p.cfg.MemProfile != "" {
		err := writeHeap(p.cfg.MemProfile)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfile, err)
	}

	// Up-to-date allocation statistics.
	runtime.GC()

	err = pprof.WriteHeapProfile(f)
	if err != nil {
		return fmt.Errorf("%w: writing heap profile: %w", ErrProfile, errors.Join(err, f.Close()))
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfile, err)
	}

	slog.Debug("wrote heap profile", slog.String("path", path))

	return nil
}
