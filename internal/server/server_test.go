package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/room-analyzer-mcp/internal/config"
	"github.com/ironsheep/room-analyzer-mcp/internal/detection"
)

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	assert.NotNil(t, s.cache)
	assert.NotNil(t, s.session)
	assert.IsType(t, detection.SidecarDetector{}, s.detector)
}

func TestNew_WithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Detector.Kind = config.DetectorNone

	s := New(WithConfig(cfg))
	assert.Nil(t, s.detector, "kind none builds no detector")
}

func TestNew_WithDetectorOverridesConfig(t *testing.T) {
	s := New(WithDetector(detection.StaticDetector{}))
	assert.IsType(t, detection.StaticDetector{}, s.detector)

	s = New(WithDetector(nil))
	assert.Nil(t, s.detector, "explicit nil detector was replaced")
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New()
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok, "serverInfo should be a map")
	assert.Equal(t, "room-analyzer-mcp", serverInfo["name"])
	assert.Equal(t, Version, serverInfo["version"])
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New()
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: "ping-1", Method: "ping"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)
	assert.Equal(t, "ping-1", resp.ID)
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	s := New()
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})

	// Notifications don't get responses
	assert.Nil(t, resp)
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	s := New()
	resp := s.handleRequest(context.Background(), &MCPRequest{JSONRPC: "2.0", ID: 1, Method: "nonexistent/method"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

// decodeStream splits RunIO output into notifications and responses.
func decodeStream(t *testing.T, out *bytes.Buffer) (notes []MCPNotification, resps []MCPResponse) {
	t.Helper()

	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		var head struct {
			ID     interface{} `json:"id"`
			Method string      `json:"method"`
		}
		require.NoError(t, json.Unmarshal(line, &head), "invalid output line %q", line)
		if head.Method != "" {
			var n MCPNotification
			require.NoError(t, json.Unmarshal(line, &n))
			notes = append(notes, n)
			continue
		}
		var r MCPResponse
		require.NoError(t, json.Unmarshal(line, &r))
		resps = append(resps, r)
	}
	return notes, resps
}

func TestRunIO_AnalyzeWithProgress(t *testing.T) {
	imgPath := createTestImageFile(t, 100, 100, color.RGBA{128, 128, 128, 255})

	s := New(WithDetector(detection.StaticDetector{
		{Label: "couch", Score: 0.9, BBox: detection.BBox{X: 0, Y: 0, Width: 50, Height: 50}},
		{Label: "tv", Score: 0.8, BBox: detection.BBox{X: 60, Y: 0, Width: 20, Height: 20}},
	}))

	call, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      7,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "room_analyze",
			"arguments": map[string]interface{}{"path": imgPath},
			"_meta":     map[string]interface{}{"progressToken": "tok-1"},
		},
	})
	require.NoError(t, err)
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		"not json",
		string(call),
		`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"room_report","arguments":{"section":"overall"}}}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, s.RunIO(context.Background(), strings.NewReader(in), &out))

	notes, resps := decodeStream(t, &out)

	require.Len(t, resps, 3, "initialize, analyze, report")
	for _, r := range resps {
		require.Nil(t, r.Error, "response %v", r.ID)
	}

	wantPercents := []float64{20, 35, 50, 65, 80, 90, 100}
	require.Len(t, notes, len(wantPercents))
	for i, n := range notes {
		assert.Equal(t, "notifications/progress", n.Method)
		params, ok := n.Params.(map[string]interface{})
		require.True(t, ok, "notification %d params: got %T", i, n.Params)
		assert.Equal(t, "tok-1", params["progressToken"])
		assert.Equal(t, wantPercents[i], params["progress"], "notification %d", i)
	}

	var overall struct {
		Score int    `json:"score"`
		Grade string `json:"grade"`
	}
	decodeTool(t, &resps[2], &overall)
	assert.Equal(t, 42, overall.Score)
	assert.Equal(t, "F", overall.Grade)
}

func TestRunIO_NoProgressWithoutToken(t *testing.T) {
	imgPath := createTestImageFile(t, 20, 20, color.RGBA{90, 90, 90, 255})
	s := New(WithDetector(detection.StaticDetector{}))

	call, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "room_analyze",
			"arguments": map[string]interface{}{"path": imgPath},
		},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, s.RunIO(context.Background(), bytes.NewReader(append(call, '\n')), &out))

	notes, resps := decodeStream(t, &out)
	assert.Empty(t, notes)
	require.Len(t, resps, 1)
	assert.Nil(t, resps[0].Error)
}
