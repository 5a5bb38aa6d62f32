package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/quadsphere/planet"
)

// Phases reported for every rebuild, in pipeline order.
var Phases = []string{planet.PhaseValidate, planet.PhaseFaces, planet.PhaseReduce, planet.PhaseUpsert}

// PerfSample holds timing data for a single rebuild.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks rebuild timing over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
	total       int

	// Frame timing (viewer only)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of rebuilds to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
	}
}

// Record adds a finished rebuild to the window.
func (p *PerfCollector) Record(res *planet.Result) {
	if res == nil {
		return
	}
	phases := make(map[string]time.Duration, len(res.Phases))
	for k, v := range res.Phases {
		phases[k] = v
	}
	p.samples[p.writeIndex] = PerfSample{Duration: res.Duration, Phases: phases}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.total++
}

// RecordFrame records frame timing for the viewer.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated rebuild statistics.
type PerfStats struct {
	Rebuilds int // total recorded, not just the window

	AvgDuration time.Duration
	MinDuration time.Duration
	MaxDuration time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total rebuild time
	PhasePct map[string]float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	stats := PerfStats{
		Rebuilds:      p.total,
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration

		if i == 0 || s.Duration < stats.MinDuration {
			stats.MinDuration = s.Duration
		}
		if s.Duration > stats.MaxDuration {
			stats.MaxDuration = s.Duration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	stats.AvgDuration = total / time.Duration(p.sampleCount)
	for phase, sum := range phaseSum {
		stats.PhaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if stats.AvgDuration > 0 {
			stats.PhasePct[phase] = float64(stats.PhaseAvg[phase]) / float64(stats.AvgDuration) * 100
		}
	}
	return stats
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int64("avg_us", s.AvgDuration.Microseconds()),
		slog.Int64("min_us", s.MinDuration.Microseconds()),
		slog.Int64("max_us", s.MaxDuration.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of rebuild stats.
type PerfStatsCSV struct {
	Rebuild     int     `csv:"rebuild"`
	AvgUS       int64   `csv:"avg_us"`
	MinUS       int64   `csv:"min_us"`
	MaxUS       int64   `csv:"max_us"`
	ValidatePct float64 `csv:"validate_pct"`
	FacesPct    float64 `csv:"faces_pct"`
	ReducePct   float64 `csv:"reduce_pct"`
	UpsertPct   float64 `csv:"upsert_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV() PerfStatsCSV {
	return PerfStatsCSV{
		Rebuild:     s.Rebuilds,
		AvgUS:       s.AvgDuration.Microseconds(),
		MinUS:       s.MinDuration.Microseconds(),
		MaxUS:       s.MaxDuration.Microseconds(),
		ValidatePct: s.PhasePct[planet.PhaseValidate],
		FacesPct:    s.PhasePct[planet.PhaseFaces],
		ReducePct:   s.PhasePct[planet.PhaseReduce],
		UpsertPct:   s.PhasePct[planet.PhaseUpsert],
	}
}
