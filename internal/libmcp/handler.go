package libmcp

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
)

const jsonrpcVersion = "2.0"

// Methods answered by the Router
const (
	methodToolsCall              = "tools/call"
	methodResourcesList          = "resources/list"
	methodResourcesRead          = "resources/read"
	methodResourcesTemplatesList = "resources/templates/list"
)

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result"`
}

type rpcErrorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   rpcError        `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type readResourceParams struct {
	URI string `json:"uri"`
}

// invalidArgument is implemented by errors that reject the request itself
type invalidArgument interface {
	InvalidArgument() bool
}

var nullID = json.RawMessage("null")

// HandleMessage answers one raw JSON-RPC message. It returns nil for
// notifications.
func (s *Server) HandleMessage(ctx context.Context, raw []byte) any {
	var req rpcRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.logger.Error().Err(err).Msg("Failed to parse message")
		return errorResponse(nullID, codeParseError, "Parse error")
	}
	if req.JSONRPC != jsonrpcVersion {
		return errorResponse(idOrNull(req.ID), codeInvalidRequest, "Invalid JSON-RPC version")
	}

	if len(req.ID) == 0 {
		// Notifications go to the core, which never answers them
		s.core.HandleMessage(ctx, raw)
		return nil
	}

	var (
		result any
		err    error
	)
	switch req.Method {
	case methodToolsCall:
		var params callToolParams
		if err := decodeParams(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeInvalidParams, err.Error())
		}
		result, err = s.router.CallTool(ctx, params.Name, params.Arguments)

	case methodResourcesList:
		result, err = s.router.ListResources(ctx)

	case methodResourcesRead:
		var params readResourceParams
		if err := decodeParams(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeInvalidParams, err.Error())
		}
		result, err = s.router.ReadResource(ctx, params.URI)

	case methodResourcesTemplatesList:
		result, err = s.router.ListResourceTemplates(ctx)

	default:
		return s.core.HandleMessage(ctx, raw)
	}

	if err != nil {
		return errorResponse(req.ID, errorCode(err), err.Error())
	}
	return rpcResponse{JSONRPC: jsonrpcVersion, ID: req.ID, Result: result}
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.New("invalid params: " + err.Error())
	}
	return nil
}

func errorCode(err error) int {
	var e invalidArgument
	if errors.As(err, &e) && e.InvalidArgument() {
		return codeInvalidParams
	}
	return codeInternalError
}

func errorResponse(id json.RawMessage, code int, message string) rpcErrorResponse {
	return rpcErrorResponse{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error:   rpcError{Code: code, Message: message},
	}
}

func idOrNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}
