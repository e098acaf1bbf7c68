package adapters

import (
	"encoding/json"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/domain"
	"net/http"
	"strconv"

	"github.com/donovanhide/eventsource"
)

const progressChannel = "progress"

type progressEvent struct {
	id       int
	progress domain.Progress
}

func (e progressEvent) Id() string    { return strconv.Itoa(e.id) }
func (e progressEvent) Event() string { return progressChannel }

func (e progressEvent) Data() string {
	payload, err := json.Marshal(e.progress)
	if err != nil {
		return "{}"
	}
	return string(payload)
}

// ProgressStream broadcasts Progress updates to SSE subscribers.
type ProgressStream struct {
	logger outbound.LoggerPort
	server *eventsource.Server
}

// NewProgressStream consumes updates from the hub sink channel on a
// worker-pool task and republishes each as a server-sent event.
func NewProgressStream(workerPool outbound.TaskDispatcher, updates <-chan domain.Progress,
	logger outbound.LoggerPort) (*ProgressStream, error) {
	server := eventsource.NewServer()
	server.AllowCORS = true

	stream := &ProgressStream{
		logger: logger,
		server: server,
	}

	err := workerPool.Submit(func() {
		eventID := 0
		for progress := range updates {
			eventID++
			server.Publish([]string{progressChannel}, progressEvent{id: eventID, progress: progress})
		}
	})
	if err != nil {
		logger.Error(err, "Failed to submit the progress forwarder to the worker pool")
		return nil, err
	}

	return stream, nil
}

func (s *ProgressStream) Handler() http.HandlerFunc {
	return s.server.Handler(progressChannel)
}

func (s *ProgressStream) Close() {
	s.server.Close()
}
