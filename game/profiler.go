package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	errCaptureCooldown = errors.New("capture on cooldown")
	errAlreadyCapture  = errors.New("already profiling")
)

// Profiler captures a CPU profile and an execution trace when the frame rate
// drops
type Profiler struct {
	log *zap.Logger

	mu              sync.Mutex
	isProfiling     bool
	lastCaptureTime time.Time
	captureCooldown time.Duration
	profilesDir     string
	captureDuration time.Duration
	wg              sync.WaitGroup
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{
		log:             log.Named("profiler"),
		captureCooldown: 10 * time.Second, // Don't capture more than once every 10 seconds
		profilesDir:     dir,
		captureDuration: 5 * time.Second,
	}
}

// CaptureProfile starts a background capture. It refuses while a capture is
// running or during the cooldown.
func (p *Profiler) CaptureProfile(reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isProfiling {
		return errAlreadyCapture
	}
	if since := time.Since(p.lastCaptureTime); since < p.captureCooldown {
		return fmt.Errorf("%w (last capture was %v ago)", errCaptureCooldown, since.Round(time.Second))
	}

	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	baseName := p.baseName(reason)
	duration := p.captureDuration

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()

		if err := p.capture(baseName, duration); err != nil {
			p.log.Warn("profile capture failed", zap.String("name", baseName), zap.Error(err))
			return
		}
		p.analyzeProfile(baseName)
	}()
	return nil
}

// CaptureProfileSync captures for duration and blocks until both files are
// written
func (p *Profiler) CaptureProfileSync(reason string, duration time.Duration) error {
	p.mu.Lock()
	if p.isProfiling {
		p.mu.Unlock()
		return errAlreadyCapture
	}
	p.isProfiling = true
	p.lastCaptureTime = time.Now()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.isProfiling = false
		p.mu.Unlock()
	}()

	baseName := p.baseName(reason)
	if err := p.capture(baseName, duration); err != nil {
		return err
	}
	p.analyzeProfile(baseName)
	return nil
}

// Wait blocks until a background capture finishes
func (p *Profiler) Wait() {
	p.wg.Wait()
}

// IsProfiling returns whether a profile capture is currently in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

func (p *Profiler) baseName(reason string) string {
	timestamp := time.Now().Format("20060102-150405")
	return fmt.Sprintf("fps-drop-%s-%s", timestamp, reason)
}

// capture records the CPU profile and the trace in parallel
func (p *Profiler) capture(baseName string, duration time.Duration) error {
	if err := os.MkdirAll(p.profilesDir, 0755); err != nil {
		return fmt.Errorf("failed to create profiles dir: %w", err)
	}

	var g errgroup.Group
	g.Go(func() error { return p.captureCPUProfile(baseName, duration) })
	g.Go(func() error { return p.captureTrace(baseName, duration) })
	return g.Wait()
}

func (p *Profiler) cpuProfilePath(baseName string) string {
	return filepath.Join(p.profilesDir, baseName+".cpu.prof")
}

func (p *Profiler) tracePath(baseName string) string {
	return filepath.Join(p.profilesDir, baseName+".trace")
}

func (p *Profiler) captureCPUProfile(baseName string, duration time.Duration) error {
	profilePath := p.cpuProfilePath(baseName)

	file, err := os.Create(profilePath)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(duration)
	pprof.StopCPUProfile()

	p.log.Info("CPU profile saved", zap.String("path", profilePath))
	return nil
}

func (p *Profiler) captureTrace(baseName string, duration time.Duration) error {
	tracePath := p.tracePath(baseName)

	file, err := os.Create(tracePath)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(duration)
	trace.Stop()

	p.log.Info("trace saved", zap.String("path", tracePath))
	return nil
}

// analyzeProfile logs where the capture went and a memory snapshot
func (p *Profiler) analyzeProfile(baseName string) {
	profilePath := p.cpuProfilePath(baseName)

	info, err := os.Stat(profilePath)
	if err != nil {
		p.log.Warn("could not analyze profile", zap.Error(err))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.log.Info("performance capture complete",
		zap.String("profile", profilePath),
		zap.Float64("profile_kb", float64(info.Size())/1024),
		zap.String("view", "go tool pprof -http=:8080 "+profilePath),
		zap.Uint64("alloc_kb", m.Alloc/1024),
		zap.Uint64("total_alloc_kb", m.TotalAlloc/1024),
		zap.Uint64("sys_kb", m.Sys/1024),
		zap.Uint32("num_gc", m.NumGC),
		zap.Uint64("heap_objects", m.HeapObjects))
}
