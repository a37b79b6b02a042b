package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Phase names understood by ProfiledFunction.
const (
	PhaseRaycast = "raycast"
	PhaseFloor   = "floor_cast"
	PhaseSprites = "sprite_project"
)

// PerformanceMonitor tracks frame and render-pass timings
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Rendering metrics
	raycastTime atomic.Uint64
	floorTime   atomic.Uint64
	spriteTime  atomic.Uint64

	// Per-frame output sizes
	wallStrips   atomic.Uint64
	floorSamples atomic.Uint64
	spritesShown atomic.Uint64

	// Statistics
	mutex           sync.RWMutex
	avgFrameTime    float64
	avgRaycastTime  float64
	raycastSamples  uint64
	peakMemoryUsage uint64
	startTime       time.Time

	// Configuration
	enableDetailed atomic.Bool
	sampleInterval time.Duration
	lowFPS         float64
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		startTime:      time.Now(),
		sampleInterval: time.Second,
		lowFPS:         30,
	}
	pm.enableDetailed.Store(true)
	return pm
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(time.Since(ft.startTime))
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	pm.frameTime.Store(uint64(d.Nanoseconds()))
	count := pm.frameCount.Add(1)

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		pm.avgFrameTime += (float64(d.Nanoseconds()) - pm.avgFrameTime) / float64(count)
		pm.mutex.Unlock()
	}
}

// RaycastTimer helps measure raycasting performance
type RaycastTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartRaycast begins raycast timing
func (pm *PerformanceMonitor) StartRaycast() *RaycastTimer {
	return &RaycastTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndRaycast completes raycast timing
func (rt *RaycastTimer) EndRaycast() {
	rt.monitor.recordRaycast(time.Since(rt.startTime))
}

func (pm *PerformanceMonitor) recordRaycast(d time.Duration) {
	pm.raycastTime.Store(uint64(d.Nanoseconds()))

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		pm.raycastSamples++
		pm.avgRaycastTime += (float64(d.Nanoseconds()) - pm.avgRaycastTime) / float64(pm.raycastSamples)
		pm.mutex.Unlock()
	}
}

// ProfiledFunction wraps a function with performance timing
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)

	// Store timing based on function name
	switch name {
	case PhaseRaycast:
		pm.recordRaycast(duration)
	case PhaseFloor:
		pm.floorTime.Store(uint64(duration.Nanoseconds()))
	case PhaseSprites:
		pm.spriteTime.Store(uint64(duration.Nanoseconds()))
	}

	return duration
}

// UpdateFrameMetrics records how much the last frame drew.
func (pm *PerformanceMonitor) UpdateFrameMetrics(walls, floorSamples, sprites int) {
	pm.wallStrips.Store(uint64(walls))
	pm.floorSamples.Store(uint64(floorSamples))
	pm.spritesShown.Store(uint64(sprites))
}

// FrameMetrics is a snapshot of the latest frame
type FrameMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	RaycastTime     time.Duration
	FloorTime       time.Duration
	SpriteTime      time.Duration
	WallStrips      uint64
	FloorSamples    uint64
	Sprites         uint64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() FrameMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := memStats.Alloc / 1024 / 1024

	pm.mutex.Lock()
	if memStats.Alloc > pm.peakMemoryUsage {
		pm.peakMemoryUsage = memStats.Alloc
	}
	pm.mutex.Unlock()

	return FrameMetrics{
		FramesPerSecond: pm.FPS(),
		FrameTime:       time.Duration(pm.frameTime.Load()),
		RaycastTime:     time.Duration(pm.raycastTime.Load()),
		FloorTime:       time.Duration(pm.floorTime.Load()),
		SpriteTime:      time.Duration(pm.spriteTime.Load()),
		WallStrips:      pm.wallStrips.Load(),
		FloorSamples:    pm.floorSamples.Load(),
		Sprites:         pm.spritesShown.Load(),
		MemoryUsageMB:   memoryMB,
	}
}

// FPS derives frames per second from the last frame time. 0 before the first frame.
func (pm *PerformanceMonitor) FPS() float64 {
	frameTime := pm.frameTime.Load()
	if frameTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(frameTime)
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":      time.Since(pm.startTime).Seconds(),
		"frame_count":         pm.frameCount.Load(),
		"avg_frame_time_ms":   pm.avgFrameTime / 1e6,
		"avg_raycast_time_ms": pm.avgRaycastTime / 1e6,
		"floor_time_ms":       float64(pm.floorTime.Load()) / 1e6,
		"sprite_time_ms":      float64(pm.spriteTime.Load()) / 1e6,
		"current_fps":         pm.FPS(),
		"wall_strips":         pm.wallStrips.Load(),
		"floor_samples":       pm.floorSamples.Load(),
		"sprites":             pm.spritesShown.Load(),
		"memory_alloc_mb":     memStats.Alloc / 1024 / 1024,
		"memory_peak_mb":      pm.peakMemoryUsage / 1024 / 1024,
		"gc_cycles":           memStats.NumGC,
		"goroutines":          runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	if fps := pm.FPS(); fps > 0 && fps < pm.lowFPS {
		alerts = append(alerts, PerformanceAlert{
			Type:      "low_fps",
			Message:   "Frame rate is below target",
			Value:     fps,
			Threshold: pm.lowFPS,
			Timestamp: currentTime,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > 500 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: 500,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// SetLowFPSThreshold changes the frame rate below which an alert is raised.
func (pm *PerformanceMonitor) SetLowFPSThreshold(fps float64) {
	pm.lowFPS = fps
}

// EnableDetailedLogging enables/disables running averages
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.enableDetailed.Store(enabled)
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.raycastTime.Store(0)
	pm.floorTime.Store(0)
	pm.spriteTime.Store(0)
	pm.wallStrips.Store(0)
	pm.floorSamples.Store(0)
	pm.spritesShown.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgRaycastTime = 0
	pm.raycastSamples = 0
	pm.peakMemoryUsage = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
