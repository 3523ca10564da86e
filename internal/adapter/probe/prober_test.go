package probe

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	"archive-registry/internal/pkg/apperrors"
)

func newTestProber(timeout time.Duration) *Prober {
	return NewProber(config.ProbeConfig{Timeout: timeout}, zap.NewNop())
}

func graphQLServer(t *testing.T, handler func(query string) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		var req graphQLRequest
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &req))

		status, resp := handler(req.Query)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProber_GenesisHash(t *testing.T) {
	srv := graphQLServer(t, func(query string) (int, string) {
		assert.Contains(t, query, "height_eq: 0")
		return http.StatusOK, `{"data":{"blocks":[{"hash":"0xfe58"}]}}`
	})

	hash, err := newTestProber(time.Second).GenesisHash(context.Background(), entity.EndpointURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "0xfe58", hash)
}

func TestProber_Version(t *testing.T) {
	srv := graphQLServer(t, func(query string) (int, string) {
		assert.Contains(t, query, "indexerStatus")
		return http.StatusOK, `{"data":{"indexerStatus":{"hydraVersion":"5.0.0-alpha23"}}}`
	})

	version, err := newTestProber(time.Second).Version(context.Background(), entity.EndpointURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "5.0.0-alpha23", version)
}

func TestProber_GzipResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"data":{"blocks":[{"hash":"0xabc"}]}}`))
		_ = gz.Close()
	}))
	t.Cleanup(srv.Close)

	hash, err := newTestProber(time.Second).GenesisHash(context.Background(), entity.EndpointURL(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, "0xabc", hash)
}

func TestProber_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{"http error with body", http.StatusBadGateway, "upstream down", apperrors.ErrTransportFailure, "got http 502, body: upstream down"},
		{"http error without body", http.StatusServiceUnavailable, "", apperrors.ErrTransportFailure, "got http 503"},
		{"graphql error", http.StatusOK, `{"errors":[{"message":"Cannot query field"}]}`, apperrors.ErrQueryFailure, "GraphQL error: Cannot query field"},
		{"no data", http.StatusOK, `{"data":null}`, apperrors.ErrQueryFailure, "no data"},
		{"no genesis block", http.StatusOK, `{"data":{"blocks":[]}}`, apperrors.ErrQueryFailure, "height 0"},
		{"invalid json", http.StatusOK, `<html>`, apperrors.ErrQueryFailure, "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := graphQLServer(t, func(string) (int, string) { return tt.status, tt.body })

			_, err := newTestProber(time.Second).GenesisHash(context.Background(), entity.EndpointURL(srv.URL))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestProber_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"data":{"blocks":[{"hash":"0x1"}]}}`))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	start := time.Now()
	_, err := newTestProber(100*time.Millisecond).GenesisHash(context.Background(), entity.EndpointURL(srv.URL))
	require.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.NotErrorIs(t, err, apperrors.ErrTransportFailure)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProber_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProber(time.Second).Version(ctx, "http://127.0.0.1:1")
	require.ErrorIs(t, err, apperrors.ErrTransportFailure)
}

func TestProber_VersionRejectsWebsocket(t *testing.T) {
	_, err := newTestProber(time.Second).Version(context.Background(), "wss://rpc.polkadot.io")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func wsServer(t *testing.T, reply func(req []byte) []byte) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if resp := reply(msg); resp != nil {
			_ = conn.WriteMessage(websocket.TextMessage, resp)
		}
		// Keep the connection open until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestProber_WebsocketGenesisHash(t *testing.T) {
	url := wsServer(t, func(req []byte) []byte {
		assert.Contains(t, string(req), "chain_getBlockHash")
		return []byte(`{"jsonrpc":"2.0","id":1,"result":"0x91b171bb"}`)
	})

	hash, err := newTestProber(time.Second).GenesisHash(context.Background(), entity.EndpointURL(url))
	require.NoError(t, err)
	assert.Equal(t, "0x91b171bb", hash)
}

func TestProber_WebsocketRPCError(t *testing.T) {
	url := wsServer(t, func([]byte) []byte {
		return []byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`)
	})

	_, err := newTestProber(time.Second).GenesisHash(context.Background(), entity.EndpointURL(url))
	require.ErrorIs(t, err, apperrors.ErrQueryFailure)
	assert.Contains(t, err.Error(), "Method not found")
}

func TestProber_WebsocketTimeout(t *testing.T) {
	url := wsServer(t, func([]byte) []byte { return nil })

	_, err := newTestProber(100*time.Millisecond).GenesisHash(context.Background(), entity.EndpointURL(url))
	require.ErrorIs(t, err, apperrors.ErrTimeout)
}
