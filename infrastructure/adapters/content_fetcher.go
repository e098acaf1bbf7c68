package adapters

import (
	"fmt"
	"io"
	"narration-video-pipeline/application/ports/outbound"
	"net/http"
)

type ContentFetcher interface {
	// FetchContent treats any non-2xx response as an error.
	FetchContent(req *http.Request) ([]byte, error)
	// FetchWithStatus returns the body and status code and errors only on
	// transport failures, leaving status handling to the caller.
	FetchWithStatus(req *http.Request) ([]byte, int, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{},
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	payload, status, err := c.FetchWithStatus(req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		c.logger.ErrorWithFields(nil, "HTTP request returned non-2xx status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  status,
			"message": string(payload),
		})
		return nil, fmt.Errorf("HTTP request returned status code: %d", status)
	}

	return payload, nil
}

func (c *contentFetcher) FetchWithStatus(req *http.Request) ([]byte, int, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, 0, err
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error(err, "Failed to close the response body")
		}
	}(res.Body)

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, res.StatusCode, err
	}

	return payload, res.StatusCode, nil
}
