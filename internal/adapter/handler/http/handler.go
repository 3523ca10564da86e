package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"archive-registry/internal/application/port"
	"archive-registry/internal/domain"
	"archive-registry/internal/domain/entity"
	"archive-registry/internal/pkg/apperrors"
)

type RegistryHandler struct {
	service port.RegistryService
	logger  *zap.Logger
}

func NewRegistryHandler(service port.RegistryService, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		service: service,
		logger:  logger.Named("RegistryHandler"),
	}
}

type endpointResponse struct {
	Endpoint string `json:"endpoint"`
}

type reloadResponse struct {
	Substrate int    `json:"substrate"`
	EVM       int    `json:"evm"`
	Networks  int    `json:"networks"`
	LoadedAt  string `json:"loadedAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListArchives handles GET /archives?type=&release=
func (h *RegistryHandler) ListArchives(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	family, err := entity.ParseFamily(string(args.Peek("type")))
	if err != nil {
		h.writeError(ctx, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}

	rows, err := h.service.ListArchives(ctx, family, string(args.Peek("release")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if rows == nil {
		rows = []entity.ArchiveListing{}
	}
	h.writeJSON(ctx, fasthttp.StatusOK, rows)
}

// GetProviders handles GET /networks/{network}/providers
func (h *RegistryHandler) GetProviders(ctx *fasthttp.RequestCtx) {
	network, criteria, ok := h.parseLookup(ctx)
	if !ok {
		return
	}

	providers, err := h.service.LookupProviders(ctx, network, criteria)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, providers)
}

// GetEndpoint handles GET /networks/{network}/endpoint
func (h *RegistryHandler) GetEndpoint(ctx *fasthttp.RequestCtx) {
	network, criteria, ok := h.parseLookup(ctx)
	if !ok {
		return
	}

	endpoint, err := h.service.ResolveEndpoint(ctx, network, criteria)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, endpointResponse{Endpoint: endpoint})
}

// GetNetworkInfo handles GET /networks/{network}/info?genesis=
func (h *RegistryHandler) GetNetworkInfo(ctx *fasthttp.RequestCtx) {
	network, ok := h.network(ctx)
	if !ok {
		return
	}

	info, err := h.service.GetNetworkInfo(ctx, network, string(ctx.QueryArgs().Peek("genesis")))
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeJSON(ctx, fasthttp.StatusOK, info)
}

// Reload handles POST /registry/reload
func (h *RegistryHandler) Reload(ctx *fasthttp.RequestCtx) {
	snapshot, err := h.service.Reload(ctx)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	h.logger.Info("Registry reloaded on request")
	h.writeJSON(ctx, fasthttp.StatusOK, reloadResponse{
		Substrate: len(snapshot.Substrate.Archives),
		EVM:       len(snapshot.EVM.Archives),
		Networks:  len(snapshot.Networks.Networks),
		LoadedAt:  snapshot.LoadedAt.UTC().Format(time.RFC3339),
	})
}

func (h *RegistryHandler) network(ctx *fasthttp.RequestCtx) (string, bool) {
	network, ok := ctx.UserValue("network").(string)
	if !ok || network == "" {
		h.logger.Error("Failed to get network from context")
		h.writeError(ctx, fmt.Errorf("%w: network is required", apperrors.ErrInvalidInput))
		return "", false
	}
	return network, true
}

// parseLookup reads the network path value and the filter query parameters.
func (h *RegistryHandler) parseLookup(ctx *fasthttp.RequestCtx) (string, entity.FilterCriteria, bool) {
	network, ok := h.network(ctx)
	if !ok {
		return "", entity.FilterCriteria{}, false
	}

	args := ctx.QueryArgs()
	family, err := entity.ParseFamily(string(args.Peek("type")))
	if err != nil {
		h.writeError(ctx, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return "", entity.FilterCriteria{}, false
	}

	return network, entity.FilterCriteria{
		Family:   family,
		Genesis:  string(args.Peek("genesis")),
		Release:  string(args.Peek("release")),
		Image:    string(args.Peek("image")),
		Gateway:  string(args.Peek("gateway")),
		Ingest:   string(args.Peek("ingest")),
		Ingester: string(args.Peek("ingester")),
		Worker:   string(args.Peek("worker")),
	}, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, domain.ErrAmbiguous):
		return fasthttp.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidInput):
		return fasthttp.StatusBadRequest
	default:
		return fasthttp.StatusInternalServerError
	}
}

func (h *RegistryHandler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == fasthttp.StatusInternalServerError {
		h.logger.Error("Request failed", zap.ByteString("uri", ctx.RequestURI()), zap.Error(err))
		message = "Internal Server Error"
	} else {
		h.logger.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	h.writeJSON(ctx, status, errorResponse{Error: message})
}

func (h *RegistryHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
