package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// SSEEvent represents a single server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data, or a plain message for errors
}

// RenderComplete is the payload of the final "complete" event
type RenderComplete struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ElapsedMs      int64   `json:"elapsedMs"`
	TotalPixels    int     `json:"totalPixels"`
	Rays           int     `json:"rays"`
	ShadowRays     int     `json:"shadowRays"`
	MaxDepth       int     `json:"maxDepth"`
	RaysPerPixel   float64 `json:"raysPerPixel"`
	PrimitiveCount int     `json:"primitiveCount"`
}

// handleRender renders a scene and streams console output followed by the
// finished image via SSE. A client disconnect cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()
	events := make(chan SSEEvent, 100)

	go s.runRender(ctx, req, events)

	// Events are written only from the handler goroutine
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-ctx.Done():
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// runRender builds the scene, renders it and reports through events, which
// it closes when done.
func (s *Server) runRender(ctx context.Context, req *RenderRequest, events chan<- SSEEvent) {
	defer close(events)

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := NewWebLogger(renderID, consoleChan, s.logger)

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		streamConsoleMessages(ctx, consoleChan, events)
	}()

	startTime := time.Now()
	sceneObj, err := s.createScene(req, logger)
	var result *renderer.RenderResult
	if err == nil {
		result, err = renderer.NewRaytracer(sceneObj, nil, logger).Render(ctx)
	}

	// No more logging after this point
	close(consoleChan)
	<-forwarded

	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}

	stats := result.Stats
	data, err := json.Marshal(RenderComplete{
		ImageData:      imageData,
		Width:          sceneObj.Config.Width,
		Height:         sceneObj.Config.Height,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		TotalPixels:    stats.TotalPixels,
		Rays:           stats.Rays,
		ShadowRays:     stats.ShadowRays,
		MaxDepth:       stats.MaxDepth,
		RaysPerPixel:   stats.AverageRaysPerPixel(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	})
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	sendEvent(ctx, events, SSEEvent{Type: "complete", Data: string(data)})
}

// streamConsoleMessages forwards console messages as SSE events until
// consoleChan is closed
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		sendEvent(ctx, events, SSEEvent{Type: "console", Data: string(data)})
	}
}

// sendEvent delivers event unless the client has gone away
func sendEvent(ctx context.Context, events chan<- SSEEvent, event SSEEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
