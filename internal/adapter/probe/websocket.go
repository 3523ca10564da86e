package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"archive-registry/internal/pkg/apperrors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// genesisPayload asks a Substrate node for the hash of block 0.
var genesisPayload = []byte(`{"jsonrpc":"2.0","method":"chain_getBlockHash","params":[0],"id":1}`)

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      interface{}     `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// nodeGenesisHash queries a node over websocket for its genesis block hash.
func (p *Prober) nodeGenesisHash(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: p.timeout,
	}

	p.logger.Debug("Attempting WSS connection", zap.String("url", url))
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", classifyContextErr(url, ctxErr)
		}
		return "", fmt.Errorf("%w: wss dial to %s failed: %v", apperrors.ErrTransportFailure, url, err)
	}
	defer conn.Close()

	// Closing the connection unblocks ReadMessage when the context ends first.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteMessage(websocket.TextMessage, genesisPayload); err != nil {
		return "", p.wsFailure(ctx, url, "write to", err)
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		return "", p.wsFailure(ctx, url, "read from", err)
	}

	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(message, &rpcResp); err != nil {
		return "", fmt.Errorf("%w: %s returned invalid JSON-RPC response: %v", apperrors.ErrQueryFailure, url, err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("%w: %s returned json-rpc error: %d %s",
			apperrors.ErrQueryFailure, url, rpcResp.Error.Code, rpcResp.Error.Message,
		)
	}

	var hash string
	if err := json.Unmarshal(rpcResp.Result, &hash); err != nil || hash == "" {
		return "", fmt.Errorf("%w: %s returned no genesis hash", apperrors.ErrQueryFailure, url)
	}
	return hash, nil
}

func (p *Prober) wsFailure(ctx context.Context, url, op string, err error) error {
	p.logger.Debug("WSS "+op+" failed", zap.String("url", url), zap.Error(err))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return classifyContextErr(url, ctxErr)
	}
	if ne, ok := err.(interface{ Timeout() bool }); ok && ne.Timeout() {
		return fmt.Errorf("%w: wss %s %s timed out after %v", apperrors.ErrTimeout, op, url, p.timeout)
	}
	return fmt.Errorf("%w: wss %s %s failed: %v", apperrors.ErrTransportFailure, op, url, err)
}

