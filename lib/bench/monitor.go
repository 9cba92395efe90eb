package bench

import (
	"sync"
	"time"
)

// Monitor samples the request rate of a recorder at a fixed interval
type Monitor struct {
	recorder *Recorder
	interval time.Duration

	mu      sync.Mutex
	samples []float64

	stop chan struct{}
	done chan struct{}
}

// StartMonitor starts sampling until Stop is called
func StartMonitor(recorder *Recorder, interval time.Duration) *Monitor {
	m := &Monitor{
		recorder: recorder,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *Monitor) run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	last := m.recorder.Count()
	lastTime := time.Now()
	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			count := m.recorder.Count()
			qps := float64(count-last) / now.Sub(lastTime).Seconds()
			last, lastTime = count, now

			m.mu.Lock()
			m.samples = append(m.samples, qps)
			m.mu.Unlock()
			Logger.Debugf("qps %.1f (%d requests)", qps, count)
		}
	}
}

// Samples returns a copy of the QPS samples taken so far
func (m *Monitor) Samples() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.samples...)
}

// Stop ends sampling and summarizes the samples
func (m *Monitor) Stop() Stats {
	close(m.stop)
	<-m.done
	return NewStats(m.Samples())
}
