package services

import (
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/channel_utils"
	"narration-video-pipeline/domain"
	"sync"
)

// ProgressHub is the observable home of the pipeline's Progress value: the
// orchestrator is its single writer, presentation layers read the latest
// snapshot or attach a sink before Start for the live stream.
type ProgressHub struct {
	workerPool outbound.TaskDispatcher
	in         chan domain.Progress
	sinks      []chan<- domain.Progress

	mu     sync.RWMutex
	latest domain.Progress
}

func NewProgressHub(workerPool outbound.TaskDispatcher) *ProgressHub {
	return &ProgressHub{
		workerPool: workerPool,
		in:         make(chan domain.Progress, 16),
	}
}

// AddSink registers a subscriber channel. Must be called before Start.
func (h *ProgressHub) AddSink(sink chan<- domain.Progress) {
	h.sinks = append(h.sinks, sink)
}

// Start begins fanning published values out to the registered sinks.
func (h *ProgressHub) Start() error {
	return channel_utils.Fanout(h.workerPool, h.in, h.sinks...)
}

func (h *ProgressHub) Publish(progress domain.Progress) {
	h.mu.Lock()
	h.latest = progress
	h.mu.Unlock()

	select {
	case h.in <- progress:
	default:
	}
}

func (h *ProgressHub) Latest() domain.Progress {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}
