package server

import (
	"sync/atomic"
)

// Metrics is shared by every session loop and the read pumps.
type Metrics struct {
	TickCount        int64
	TotalTickNs      int64
	CommandsAccepted int64
	CommandsRejected int64
	CommandsDropped  int64 // session queue full
	MessagesDropped  int64 // writer queue full
	Collected        int64
	Victories        int64
	SessionsCreated  int64
	SessionsEnded    int64
}

func (m *Metrics) IncAccepted()        { atomic.AddInt64(&m.CommandsAccepted, 1) }
func (m *Metrics) IncRejected()        { atomic.AddInt64(&m.CommandsRejected, 1) }
func (m *Metrics) IncCommandDropped()  { atomic.AddInt64(&m.CommandsDropped, 1) }
func (m *Metrics) IncMessageDropped()  { atomic.AddInt64(&m.MessagesDropped, 1) }
func (m *Metrics) IncCollected()       { atomic.AddInt64(&m.Collected, 1) }
func (m *Metrics) IncVictories()       { atomic.AddInt64(&m.Victories, 1) }
func (m *Metrics) IncSessionsCreated() { atomic.AddInt64(&m.SessionsCreated, 1) }
func (m *Metrics) IncSessionsEnded()   { atomic.AddInt64(&m.SessionsEnded, 1) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot is a read only copy for the HTTP endpoint.
func (m *Metrics) Snapshot() map[string]interface{} {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]interface{}{
		"tick_count":        tick,
		"avg_tick_ms":       avgMs,
		"commands_accepted": atomic.LoadInt64(&m.CommandsAccepted),
		"commands_rejected": atomic.LoadInt64(&m.CommandsRejected),
		"commands_dropped":  atomic.LoadInt64(&m.CommandsDropped),
		"messages_dropped":  atomic.LoadInt64(&m.MessagesDropped),
		"collected":         atomic.LoadInt64(&m.Collected),
		"victories":         atomic.LoadInt64(&m.Victories),
		"sessions_created":  atomic.LoadInt64(&m.SessionsCreated),
		"sessions_ended":    atomic.LoadInt64(&m.SessionsEnded),
	}
}
