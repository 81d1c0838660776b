package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-pager/internal/config"
	"github.com/ironsheep/image-pager/internal/paging"
	"github.com/ironsheep/image-pager/internal/session"
	"github.com/ironsheep/image-pager/internal/transform"
)

// Server handles MCP protocol communication for one editing session.
type Server struct {
	session *session.Session
	log     zerolog.Logger

	// mu guards enc: responses and notifications share one output stream.
	mu  sync.Mutex
	enc *json.Encoder
}

// MCPRequest represents an incoming JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID).
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server around a fresh session configured by cfg. The
// session's residency and lifecycle events are wired into the server's log
// and notification stream.
func New(cfg config.Config, log zerolog.Logger) *Server {
	s := &Server{log: log}
	s.session = session.New(cfg,
		session.WithStoreListener(s.onStoreEvent),
		session.WithEngineListener(s.onEngineEvent),
	)
	return s
}

// Run serves requests from r and writes responses to w until r is
// exhausted. Typically r is stdin and w is stdout.
func (s *Server) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Tool requests are small, but one oversized client line must not abort
	// the scan loop.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	s.mu.Lock()
	s.enc = json.NewEncoder(w)
	s.mu.Unlock()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			s.writeMessage(resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest routes requests to appropriate handlers.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed.
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request.
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-pager",
				"version": "0.1.0",
			},
		},
	}
}

// writeMessage encodes a response or notification onto the output stream.
func (s *Server) writeMessage(v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enc == nil {
		return
	}
	if err := s.enc.Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode message")
	}
}

// notify sends a JSON-RPC notification. Dropped silently before Run wires
// the output stream.
func (s *Server) notify(method string, params interface{}) {
	s.writeMessage(MCPNotification{JSONRPC: "2.0", Method: method, Params: params})
}

// onStoreEvent forwards page-store residency events.
func (s *Server) onStoreEvent(ev paging.Event) {
	switch ev.Kind {
	case paging.EventSwappedIn:
		s.log.Debug().Int("page_id", ev.PageID).Msg("page swapped in")
		s.notify("notifications/page/swapped_in", map[string]interface{}{"page_id": ev.PageID})
	case paging.EventSwappedOut:
		s.log.Debug().Int("page_id", ev.PageID).Msg("page swapped out")
		s.notify("notifications/page/swapped_out", map[string]interface{}{"page_id": ev.PageID})
	case paging.EventStatsUpdated:
		s.notify("notifications/page/stats_updated", ev.Stats)
	}
}

// onEngineEvent forwards transform lifecycle events.
func (s *Server) onEngineEvent(ev transform.Event) {
	switch ev.Kind {
	case transform.EventStarted:
		s.log.Info().
			Int("brightness", ev.Request.Brightness).
			Int("contrast", ev.Request.Contrast).
			Str("filter", ev.Request.Filter.String()).
			Int("rotation", ev.Request.Rotation).
			Msg("transform started")
		s.notify("notifications/transform/started", ev.Request)
	case transform.EventCompleted:
		s.log.Info().
			Int("width", ev.Width).
			Int("height", ev.Height).
			Uint64("hits", ev.Stats.Hits).
			Uint64("faults", ev.Stats.Faults).
			Msg("transform completed")
		s.notify("notifications/transform/completed", map[string]interface{}{
			"width":  ev.Width,
			"height": ev.Height,
			"stats":  ev.Stats,
		})
	case transform.EventError:
		s.log.Error().Err(ev.Err).Msg("transform failed")
		s.notify("notifications/transform/error", map[string]interface{}{
			"error": ev.Err.Error(),
		})
	}
}
