// Package mcp implements the Model Context Protocol server: a
// line-delimited JSON-RPC 2.0 loop over stdio exposing the note tools.
// Requests are processed one at a time; there are no overlapping
// operations on the vault.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// Server dispatches MCP requests to the tool handlers.
type Server struct {
	handler *ToolHandler
	version string
	logger  *slog.Logger
}

// NewServer creates an MCP server around the given tool handler.
func NewServer(handler *ToolHandler, version string, logger *slog.Logger) *Server {
	return &Server{handler: handler, version: version, logger: logger}
}

// Request is a JSON-RPC request envelope.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response envelope.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	ServerInfo      serverInfo         `json:"serverInfo"`
	Capabilities    serverCapabilities `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type serverCapabilities struct {
	Tools *toolsCapability `json:"tools,omitempty"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type listToolsResult struct {
	Tools []Tool `json:"tools"`
}

// Tool describes a callable tool with its JSON-schema argument set.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallToolResult is the single text payload returned to the agent.
type CallToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolContent is one content block of a tool result.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Run reads requests from r and writes responses to w until EOF or
// context cancellation.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := s.send(w, errorResponse(nil, -32700, "Parse error")); err != nil {
				return err
			}
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := s.send(w, resp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	if s.logger != nil {
		s.logger.Debug("mcp request", "method", req.Method)
	}

	switch req.Method {
	case "initialize":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: initializeResult{
				ProtocolVersion: protocolVersion,
				ServerInfo:      serverInfo{Name: "sedge", Version: s.version},
				Capabilities:    serverCapabilities{Tools: &toolsCapability{}},
			},
		}
	case "tools/list":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  listToolsResult{Tools: toolDefinitions()},
		}
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "notifications/initialized":
		return nil // Notification, no response
	default:
		return errorResponse(req.ID, -32601, "Method not found")
	}
}

func (s *Server) handleCallTool(ctx context.Context, req *Request) *Response {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, "Invalid params")
	}

	text, err := s.handler.Handle(ctx, params.Name, params.Arguments)
	if err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: CallToolResult{
				Content: []ToolContent{{Type: "text", Text: fmt.Sprintf("Error: %v", err)}},
				IsError: true,
			},
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: CallToolResult{
			Content: []ToolContent{{Type: "text", Text: text}},
		},
	}
}

func (s *Server) send(w io.Writer, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func errorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}
