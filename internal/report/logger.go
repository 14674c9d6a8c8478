package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/erlendvik/packfold/internal/common"
)

// RunLogger provides dual-format logging for a packfold run: console
// output is human-readable, file output is JSONL for offline analysis
// (grounded on the teacher's BLSLogger, adapted from per-iteration BLS
// cost events to packfold's exploration/compression phase events).
type RunLogger struct {
	console   io.Writer
	file      io.Writer
	startTime time.Time
}

// NewRunLogger builds a logger writing human-readable progress to
// console and JSONL events to file. Either may be nil to disable that
// output channel.
func NewRunLogger(console, file io.Writer) *RunLogger {
	return &RunLogger{console: console, file: file, startTime: time.Now()}
}

// LogEvent is a single JSONL log line.
type LogEvent struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	ElapsedMs int64     `json:"elapsed_ms"`

	Phase   string   `json:"phase,omitempty"`
	Width   *float64 `json:"width,omitempty"`
	Loss    *float64 `json:"loss,omitempty"`
	Strikes *int     `json:"strikes,omitempty"`

	Message string `json:"message,omitempty"`

	CacheStats *CacheStatsLog `json:"cache_stats,omitempty"`
}

// CacheStatsLog captures hazard-collector/tracker cache statistics at
// the end of a run.
type CacheStatsLog struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

func (l *RunLogger) writeJSON(event LogEvent) {
	if l.file == nil {
		return
	}
	event.Timestamp = time.Now()
	event.ElapsedMs = time.Since(l.startTime).Milliseconds()

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = l.file.Write(data)
}

// LogPhaseStart logs the start of the exploration or compression phase.
func (l *RunLogger) LogPhaseStart(phase string) {
	if l.console != nil {
		common.MustFprintf(l.console, "starting %s phase\n", phase)
	}
	l.writeJSON(LogEvent{Event: "phase_start", Phase: phase})
}

// LogSeparatorProgress logs one strike-loop iteration's total loss.
func (l *RunLogger) LogSeparatorProgress(phase string, loss float64, strikes int) {
	if l.console != nil {
		common.MustFprintf(l.console, "%s: loss=%.4f strikes=%d\n", phase, loss, strikes)
	}
	l.writeJSON(LogEvent{Event: "separator_progress", Phase: phase, Loss: &loss, Strikes: &strikes})
}

// LogSolution logs a reported solution event.
func (l *RunLogger) LogSolution(ev SolutionEvent) {
	kind := solutionKindName(ev.Kind)
	if l.console != nil {
		common.MustFprintf(l.console, "%s: width=%.4f loss=%.6f\n", kind, ev.Width, ev.Loss)
	}
	width, loss := ev.Width, ev.Loss
	l.writeJSON(LogEvent{Event: kind, Width: &width, Loss: &loss})
}

// LogEnd logs the run's conclusion.
func (l *RunLogger) LogEnd(width float64, elapsed time.Duration) {
	if l.console != nil {
		common.MustFprintf(l.console, "\nrun complete\nfinal width: %.4f\nelapsed: %v\n", width, elapsed.Round(time.Millisecond))
	}
	l.writeJSON(LogEvent{Event: "end", Width: &width, Message: elapsed.String()})
}

// LogCacheStats logs hazard-collector cache effectiveness.
func (l *RunLogger) LogCacheStats(hits, misses int64) {
	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses)
	}
	l.writeJSON(LogEvent{Event: "cache_stats", CacheStats: &CacheStatsLog{Hits: hits, Misses: misses, HitRate: hitRate}})
}

func solutionKindName(k EventKind) string {
	switch k {
	case ExplorationFeasible:
		return "exploration_feasible"
	case ExplorationInfeasible:
		return "exploration_infeasible"
	case ExplorationImproving:
		return "exploration_improving"
	case CompressionFeasible:
		return "compression_feasible"
	case Final:
		return "final"
	default:
		return "unknown"
	}
}

// AsListener adapts the logger into a Listener, logging every solution
// event and forwarding separator-level progress to LogSeparatorProgress
// under the phase name "separate".
func (l *RunLogger) AsListener() Listener {
	return &loggerListener{l: l}
}

type loggerListener struct {
	l *RunLogger
}

func (ll *loggerListener) OnSolution(ev SolutionEvent) { ll.l.LogSolution(ev) }

func (ll *loggerListener) OnSeparatorProgress(ev SeparatorEvent) {
	ll.l.LogSeparatorProgress("separate", ev.TotalLoss, ev.Strikes)
}
