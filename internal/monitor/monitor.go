// Package monitor runs the live capture-and-submit loop: it samples the
// camera at a fixed cadence, submits each frame to the analysis service, and
// keeps the latest verdict and connection status current for the display.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bdougie/posturewatch/internal/capture"
	"github.com/bdougie/posturewatch/internal/models"
)

// Analyzer is the slice of the API client the monitor needs.
type Analyzer interface {
	AnalyzeFrame(ctx context.Context, jpeg []byte) (*models.LiveAnalysisResult, error)
}

// Monitor owns the live polling flow's state. Cycles are not serialized
// against each other: a slow response may overlap the next tick's request,
// and a stale response is discarded by the cycle sequence guard rather than
// applied out of order.
type Monitor struct {
	source   capture.FrameSource
	analyzer Analyzer
	interval time.Duration
	log      *slog.Logger

	mu          sync.Mutex
	running     bool
	stopChan    chan struct{}
	sessionID   string
	inflight    int
	status      models.ConnectionStatus
	latest      *models.LiveAnalysisResult
	lastUpdated time.Time
	seq         uint64
	appliedSeq  uint64

	onUpdate func(models.MonitorState)

	wg sync.WaitGroup
}

// New builds a stopped monitor polling source at the given interval.
func New(source capture.FrameSource, analyzer Analyzer, interval time.Duration, log *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = time.Second
	}
	return &Monitor{
		source:   source,
		analyzer: analyzer,
		interval: interval,
		log:      log,
		status:   models.Disconnected,
	}
}

// SetOnUpdate registers a callback invoked after every applied cycle outcome.
func (m *Monitor) SetOnUpdate(callback func(models.MonitorState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = callback
}

// Start begins the polling loop: one immediate cycle, then one per interval.
// The connection status is set to connected optimistically. Calling Start on
// a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.status = models.Connected
	m.sessionID = uuid.NewString()
	session := m.sessionID
	m.mu.Unlock()

	m.log.Info("starting posture monitor",
		"session", session,
		"interval", m.interval,
	)

	m.wg.Add(1)
	go m.pollLoop(ctx)
}

// Stop cancels future cycles, sets the status to disconnected, and clears
// the busy indicator. Requests already in flight are not aborted; their
// responses still land in the latest-result slot, but they no longer touch
// the connection status. Calling Stop on a stopped monitor is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.status = models.Disconnected
	close(m.stopChan)
	session := m.sessionID
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info("posture monitor stopped", "session", session)
}

// Snapshot returns a copy of the observable state for rendering.
func (m *Monitor) Snapshot() models.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := models.MonitorState{
		Running:     m.running,
		Busy:        m.running && m.inflight > 0,
		Status:      m.status,
		LastUpdated: m.lastUpdated,
	}
	if m.latest != nil {
		latest := *m.latest
		state.Latest = &latest
	}
	return state
}

func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	// Each cycle runs in its own goroutine so a slow response never delays
	// the next tick.
	go m.cycle(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			go m.cycle(ctx)
		}
	}
}

// cycle performs one capture-and-submit round trip.
func (m *Monitor) cycle(ctx context.Context) {
	frame, err := m.source.Grab(ctx)
	if err != nil {
		// Camera not ready: skip the cycle without touching status.
		m.log.Debug("frame grab skipped", "error", err)
		return
	}

	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.inflight++
	m.mu.Unlock()

	result, err := m.analyzer.AnalyzeFrame(ctx, frame)

	m.mu.Lock()
	m.inflight--
	if seq <= m.appliedSeq {
		// A newer cycle already landed; drop this response.
		m.mu.Unlock()
		return
	}
	m.appliedSeq = seq
	if err != nil {
		if m.running {
			m.status = models.ConnError
		}
		m.mu.Unlock()
		m.log.Warn("frame analysis failed", "error", err)
		m.notify()
		return
	}
	m.latest = result
	if m.running {
		m.status = models.Connected
	}
	m.lastUpdated = time.Now()
	m.mu.Unlock()

	m.log.Debug("frame analyzed",
		"bad_posture", result.BadPosture,
		"posture_status", result.PostureStatus,
	)
	m.notify()
}

func (m *Monitor) notify() {
	m.mu.Lock()
	callback := m.onUpdate
	m.mu.Unlock()

	if callback != nil {
		callback(m.Snapshot())
	}
}
