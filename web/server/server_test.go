package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func newTestServer(t *testing.T) *httptest.Server {
	s := NewServer(0, t.TempDir())
	s.logger = log.New(io.Discard, "", 0)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Reading %s: %v", path, err)
	}
	return resp, string(body)
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"ok"`) {
		t.Errorf("Expected ok status, got %s", body)
	}
}

func TestHandleScenes(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/scenes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var scenes scene.ScenesResponse
	if err := json.Unmarshal([]byte(body), &scenes); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(scenes.Groups) == 0 {
		t.Fatal("Expected at least the built-in group")
	}
	if got, want := len(scenes.Groups[0].Scenes), len(scene.ListBuiltInScenes()); got != want {
		t.Errorf("Expected %d built-in scenes, got %d", want, got)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"default scene", "/api/scene-config", http.StatusOK},
		{"cornell scene", "/api/scene-config?scene=cornell", http.StatusOK},
		{"unknown scene", "/api/scene-config?scene=nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, resp.StatusCode, body)
			}
		})
	}
}

func TestHandleRender(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/render?scene=default&width=16&height=16&maxDepth=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}
	if !strings.Contains(body, "event: console") {
		t.Error("Expected console events in the stream")
	}

	idx := strings.Index(body, "event: complete\ndata: ")
	if idx < 0 {
		t.Fatalf("Expected a complete event, got:\n%s", body)
	}
	data := body[idx+len("event: complete\ndata: "):]
	data = data[:strings.Index(data, "\n")]

	var complete RenderComplete
	if err := json.Unmarshal([]byte(data), &complete); err != nil {
		t.Fatalf("Invalid complete payload: %v", err)
	}
	if complete.Width != 16 || complete.Height != 16 || complete.TotalPixels != 256 {
		t.Errorf("Unexpected size in %+v", complete)
	}
	if complete.ImageData == "" {
		t.Error("Expected image data")
	}
	if complete.MaxDepth > 2 {
		t.Errorf("Expected depth at most 2, got %d", complete.MaxDepth)
	}
}

func TestHandleRender_Errors(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := get(t, ts, "/api/render?width=5")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a tiny image, got %d", resp.StatusCode)
	}

	resp, body := get(t, ts, "/api/render?scene=nonexistent&width=16&height=16")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected the stream to open, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "event: error") {
		t.Errorf("Expected an error event, got:\n%s", body)
	}
}

func TestHandleInspect(t *testing.T) {
	ts := newTestServer(t)

	// The bottom centre pixel of the default view looks down at the ground
	resp, body := get(t, ts, "/api/inspect?scene=default&width=16&height=16&x=8&y=15")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}

	var inspect InspectResponse
	if err := json.Unmarshal([]byte(body), &inspect); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !inspect.Hit {
		t.Fatal("Expected a hit")
	}
	if inspect.GeometryType != "plane" || inspect.MaterialType != "diffuse" {
		t.Errorf("Expected diffuse plane, got %s %s", inspect.MaterialType, inspect.GeometryType)
	}
	if inspect.Normal != [3]float64{0, 1, 0} {
		t.Errorf("Expected up normal, got %v", inspect.Normal)
	}
}

func TestHandleInspect_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"missing x", "/api/inspect?y=1", http.StatusBadRequest},
		{"bad y", "/api/inspect?x=1&y=up", http.StatusBadRequest},
		{"out of bounds", "/api/inspect?width=16&height=16&x=16&y=0", http.StatusBadRequest},
		{"unknown scene", "/api/inspect?scene=nonexistent&x=0&y=0", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, resp.StatusCode, body)
			}
		})
	}
}
