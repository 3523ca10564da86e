package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"archive-registry/internal/config"
	"archive-registry/internal/domain/entity"
	domainRepo "archive-registry/internal/domain/repository"
	"archive-registry/internal/pkg/apperrors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.SnapshotSource = (*Repository)(nil)

const defaultFetchTimeout = 15 * time.Second

// Repository implements SnapshotSource by fetching registry documents over HTTP.
type Repository struct {
	client       *fasthttp.Client
	substrateURL string
	evmURL       string
	networksURL  string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewRepository creates a new remote registry repository.
func NewRepository(cfg config.RegistryConfig, logger *zap.Logger) *Repository {
	timeout := cfg.GetFetchTimeout()
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Repository{
		client:       &fasthttp.Client{},
		substrateURL: cfg.SubstrateURL,
		evmURL:       cfg.EVMURL,
		networksURL:  cfg.NetworksURL,
		timeout:      timeout,
		logger:       logger.Named("ArchiveRegistryStorage"),
	}
}

// Load fetches the Substrate and EVM archive registries and the network metadata.
// An empty URL leaves the corresponding collection empty.
func (r *Repository) Load(ctx context.Context) (*entity.Snapshot, error) {
	snapshot := &entity.Snapshot{
		Substrate: entity.Registry{Family: entity.FamilySubstrate},
		EVM:       entity.Registry{Family: entity.FamilyEVM},
	}

	for _, src := range []struct {
		family entity.Family
		url    string
		dst    *entity.Registry
	}{
		{entity.FamilySubstrate, r.substrateURL, &snapshot.Substrate},
		{entity.FamilyEVM, r.evmURL, &snapshot.EVM},
	} {
		if src.url == "" {
			continue
		}
		body, err := r.fetchDocument(ctx, src.url)
		if err != nil {
			return nil, err
		}
		raw, err := decodeArchives(body)
		if err != nil {
			return nil, fmt.Errorf("%s registry from %s: %w", src.family, src.url, err)
		}
		*src.dst = toDomainRegistry(src.family, raw, r.logger)
		r.logger.Info("Loaded archive registry",
			zap.String("family", string(src.family)), zap.Int("count", len(src.dst.Archives)),
		)
	}

	if r.networksURL != "" {
		body, err := r.fetchDocument(ctx, r.networksURL)
		if err != nil {
			return nil, err
		}
		raw, err := decodeNetworks(body)
		if err != nil {
			return nil, fmt.Errorf("network registry from %s: %w", r.networksURL, err)
		}
		snapshot.Networks = toDomainNetworks(raw)
		r.logger.Info("Loaded network registry", zap.Int("count", len(snapshot.Networks.Networks)))
	}

	snapshot.LoadedAt = time.Now()
	return snapshot, nil
}

// fetchDocument downloads one registry document, honoring the context deadline.
func (r *Repository) fetchDocument(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip")

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if requestTimeout := time.Until(deadline); requestTimeout > 0 && requestTimeout < timeout {
			timeout = requestTimeout
		}
	}

	r.logger.Debug("Fetching registry document", zap.String("url", url), zap.Duration("timeout", timeout))

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		r.logger.Error("Failed to execute request to registry source", zap.String("url", url), zap.Error(err))
		if err == fasthttp.ErrTimeout {
			return nil, fmt.Errorf("%w: fetching %s after %v", apperrors.ErrTimeout, url, timeout)
		}
		return nil, fmt.Errorf("%w: fetching %s: %v", apperrors.ErrTransportFailure, url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		r.logger.Error("Registry source returned non-OK status",
			zap.String("url", url),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("body", resp.Body()),
		)
		return nil, fmt.Errorf("%w: registry source %s returned status %d",
			apperrors.ErrTransportFailure, url, resp.StatusCode(),
		)
	}

	if bytes.EqualFold(resp.Header.Peek(fasthttp.HeaderContentEncoding), []byte("gzip")) {
		body, err := resp.BodyGunzip()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decompress %s: %v", apperrors.ErrTransportFailure, url, err)
		}
		return body, nil
	}

	// resp is released on return, so the body must be copied out.
	return append([]byte(nil), resp.Body()...), nil
}
