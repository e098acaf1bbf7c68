package channel_utils

import (
	"narration-video-pipeline/application/ports/outbound"
)

// Fanout delivers every value from in to all sinks on a worker-pool task.
// Sends are non-blocking: a slow sink drops updates instead of stalling the
// writer. Sinks are closed when in closes.
func Fanout[T any](workerPool outbound.TaskDispatcher, in <-chan T, sinks ...chan<- T) error {
	return workerPool.Submit(func() {
		defer func() {
			for _, sink := range sinks {
				close(sink)
			}
		}()
		for val := range in {
			for _, sink := range sinks {
				select {
				case sink <- val:
				default:
				}
			}
		}
	})
}
