package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	domainService "archive-registry/internal/domain/service"
	"archive-registry/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Prober = (*Prober)(nil)

const (
	versionQuery = `query { indexerStatus { hydraVersion } }`
	genesisQuery = `query { blocks(where: {height_eq: 0}, limit: 1) { hash } }`
)

// Prober implements domainService.Prober against archive GraphQL endpoints,
// and against node websocket endpoints for the genesis hash.
type Prober struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewProber creates a new archive prober. Every probe gets its own timeout.
func NewProber(cfg config.ProbeConfig, logger *zap.Logger) *Prober {
	return &Prober{
		client:  &fasthttp.Client{},
		timeout: cfg.GetTimeout(),
		logger:  logger.Named("ArchiveProber"),
	}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Version returns the indexer version reported by the archive.
func (p *Prober) Version(ctx context.Context, url entity.EndpointURL) (string, error) {
	if url.IsWebsocket() {
		return "", fmt.Errorf("%w: version probe needs a GraphQL endpoint, got %s", apperrors.ErrInvalidInput, url)
	}

	var data struct {
		IndexerStatus struct {
			HydraVersion string `json:"hydraVersion"`
		} `json:"indexerStatus"`
	}
	if err := p.query(ctx, url.String(), versionQuery, &data); err != nil {
		return "", err
	}
	if data.IndexerStatus.HydraVersion == "" {
		return "", fmt.Errorf("%w: %s reported an empty version", apperrors.ErrQueryFailure, url)
	}
	return data.IndexerStatus.HydraVersion, nil
}

// GenesisHash returns the hash of the block at height 0.
func (p *Prober) GenesisHash(ctx context.Context, url entity.EndpointURL) (string, error) {
	if url.IsWebsocket() {
		return p.nodeGenesisHash(ctx, url.String())
	}

	var data struct {
		Blocks []struct {
			Hash string `json:"hash"`
		} `json:"blocks"`
	}
	if err := p.query(ctx, url.String(), genesisQuery, &data); err != nil {
		return "", err
	}
	if len(data.Blocks) == 0 {
		return "", fmt.Errorf("%w: %s has no block at height 0", apperrors.ErrQueryFailure, url)
	}
	return data.Blocks[0].Hash, nil
}

// query posts a GraphQL query and decodes the data envelope into out.
// The request is bounded by the probe timeout and any earlier context deadline.
func (p *Prober) query(ctx context.Context, url, query string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return classifyContextErr(url, err)
	}

	payload, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return fmt.Errorf("%w: encoding query: %v", apperrors.ErrInternal, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip, br")
	req.SetBody(payload)

	deadline, _ := ctx.Deadline()
	startTime := time.Now()
	requestErr := p.client.DoDeadline(req, resp, deadline)
	latency := time.Since(startTime)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			p.logger.Debug("Probe timed out", zap.String("url", url), zap.Duration("timeout", p.timeout))
			return fmt.Errorf("%w: request to %s timed out after %v", apperrors.ErrTimeout, url, latency.Round(time.Millisecond))
		}
		p.logger.Debug("Probe request failed", zap.String("url", url), zap.Error(requestErr))
		return fmt.Errorf("%w: request to %s failed: %v", apperrors.ErrTransportFailure, url, requestErr)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrTransportFailure, url, err)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		p.logger.Debug("Probe returned non-success status",
			zap.String("url", url), zap.Int("statusCode", status),
		)
		if len(body) > 0 {
			return fmt.Errorf("%w: got http %d, body: %s", apperrors.ErrTransportFailure, status, body)
		}
		return fmt.Errorf("%w: got http %d", apperrors.ErrTransportFailure, status)
	}

	var result graphQLResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("%w: %s returned invalid JSON: %v", apperrors.ErrQueryFailure, url, err)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: GraphQL error: %s", apperrors.ErrQueryFailure, result.Errors[0].Message)
	}
	if len(result.Data) == 0 || string(result.Data) == "null" {
		return fmt.Errorf("%w: %s returned no data", apperrors.ErrQueryFailure, url)
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("%w: %s returned unexpected data: %v", apperrors.ErrQueryFailure, url, err)
	}

	p.logger.Debug("Probe succeeded", zap.String("url", url), zap.Duration("latency", latency))
	return nil
}

// decodeBody returns the response body, decompressed per Content-Encoding.
func decodeBody(resp *fasthttp.Response) ([]byte, error) {
	switch string(resp.Header.Peek(fasthttp.HeaderContentEncoding)) {
	case "gzip":
		return resp.BodyGunzip()
	case "br":
		return resp.BodyUnbrotli()
	default:
		return append([]byte(nil), resp.Body()...), nil
	}
}

func classifyContextErr(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: probe of %s: %v", apperrors.ErrTimeout, url, err)
	}
	return fmt.Errorf("%w: probe of %s: %v", apperrors.ErrTransportFailure, url, err)
}
