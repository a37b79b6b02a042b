package game

import (
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

const (
	perfLowFpsThreshold = 50.0
	perfLowFpsDuration  = 3 * time.Second
	perfLogInterval     = 3 * time.Second
)

// maybeLogPerfDrop logs a snapshot once FPS has stayed low for a while.
// It only runs with debug logging enabled.
func (gl *GameLoop) maybeLogPerfDrop() {
	if !gl.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	fps := ebiten.ActualFPS()
	if fps >= perfLowFpsThreshold {
		gl.perfLowFpsSince = time.Time{}
		gl.perfLastLog = time.Time{}
		return
	}

	now := time.Now()
	if gl.perfLowFpsSince.IsZero() {
		gl.perfLowFpsSince = now
		return
	}
	if now.Sub(gl.perfLowFpsSince) < perfLowFpsDuration {
		return
	}
	if !gl.perfLastLog.IsZero() && now.Sub(gl.perfLastLog) < perfLogInterval {
		return
	}

	gl.perfLastLog = now
	gl.logPerfSnapshot(fps)
}

func (gl *GameLoop) logPerfSnapshot(fps float64) {
	stats := gl.monitor.GetDetailedStats()
	width, height := gl.sim.Viewport()

	causes := make([]string, 0, 3)
	if sprites := getPerfUint(stats, "sprites"); sprites > 100 {
		causes = append(causes, "many sprites")
	}
	if floor := getPerfUint(stats, "floor_samples"); floor > uint64(width*height)/2 {
		causes = append(causes, "large floor area")
	}
	if width*height > 1920*1080 {
		causes = append(causes, "large viewport")
	}
	causeText := "none obvious"
	if len(causes) > 0 {
		causeText = strings.Join(causes, ", ")
	}

	gl.log.WithFields(logrus.Fields{
		"fps":          fps,
		"tps":          ebiten.ActualTPS(),
		"causes":       causeText,
		"viewport":     [2]int{width, height},
		"update_ms":    float64(gl.lastUpdateDuration.Microseconds()) / 1000.0,
		"draw_ms":      float64(gl.lastDrawDuration.Microseconds()) / 1000.0,
		"budget_ms":    frameBudgetMs(fps),
		"idle_ms":      idleBudgetMs(fps, gl.lastUpdateDuration, gl.lastDrawDuration),
		"raycast_ms":   getPerfFloat(stats, "avg_raycast_time_ms"),
		"floor_ms":     getPerfFloat(stats, "floor_time_ms"),
		"sprite_ms":    getPerfFloat(stats, "sprite_time_ms"),
		"walls":        getPerfUint(stats, "wall_strips"),
		"goroutines":   getPerfInt(stats, "goroutines"),
		"mem_alloc_mb": getPerfUint(stats, "memory_alloc_mb"),
		"gc_cycles":    getPerfUint(stats, "gc_cycles"),
		"vsync":        ebiten.IsVsyncEnabled(),
	}).Debug("low frame rate")
}

func frameBudgetMs(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return 1000.0 / fps
}

func idleBudgetMs(fps float64, updateDur, drawDur time.Duration) float64 {
	budget := frameBudgetMs(fps)
	busy := float64(updateDur.Microseconds()+drawDur.Microseconds()) / 1000.0
	idle := budget - busy
	if idle < 0 {
		return 0
	}
	return idle
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case uint64:
			return float64(v)
		}
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case uint64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func getPerfUint(stats map[string]interface{}, key string) uint64 {
	if val, ok := stats[key]; ok {
		switch v := val.(type) {
		case uint64:
			return v
		case uint32:
			return uint64(v)
		case int:
			return uint64(v)
		case float64:
			return uint64(v)
		}
	}
	return 0
}
