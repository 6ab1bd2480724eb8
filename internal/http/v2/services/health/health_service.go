// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	dto "github.com/dropDatabas3/hellosocial/internal/http/v2/dto/health"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	StoreDriver string
	StoreCheck  func(ctx context.Context) error // ping del ConnectionRepository
	State       *social.StateSigner
	Registry    *social.Registry
	Version     string
}

type healthService struct {
	deps Deps
}

func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}
	if git := os.Getenv("SERVICE_COMMIT"); git != "" {
		response.Commit = git
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Connection store (crítico)
	if s.deps.StoreCheck != nil {
		if err := s.deps.StoreCheck(ctx); err != nil {
			// el detalle (host, DSN) va al log, no a la respuesta pública
			response.Components["store"] = dto.HealthStatus{
				Status:  "error",
				Message: s.deps.StoreDriver + " unavailable",
			}
			hasCriticalErrors = true
			log.Error("store unavailable", logger.String("driver", s.deps.StoreDriver), logger.Err(err))
		} else {
			response.Components["store"] = dto.HealthStatus{Status: "ok", Message: s.deps.StoreDriver}
		}
	} else {
		response.Components["store"] = dto.HealthStatus{Status: "error", Message: "store not initialized"}
		hasCriticalErrors = true
	}

	// 2) State signer (crítico): sin state no hay callback posible
	if s.deps.State != nil {
		if err := s.checkState(); err != nil {
			response.Components["state_signer"] = dto.HealthStatus{Status: "error", Message: "self-check failed"}
			hasCriticalErrors = true
			log.Error("state signer check failed", logger.Err(err))
		} else {
			response.Components["state_signer"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["state_signer"] = dto.HealthStatus{Status: "error", Message: "signer not initialized"}
		hasCriticalErrors = true
	}

	// 3) Providers (informativo)
	if s.deps.Registry != nil {
		ids := s.deps.Registry.Providers()
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}
		status := "ok"
		if len(names) == 0 {
			status = "error"
			hasErrors = true
		}
		response.Components["providers"] = dto.HealthStatus{Status: status, Message: strings.Join(names, ",")}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}
	return response
}

func (s *healthService) checkState() error {
	state, err := s.deps.State.Sign("selfcheck", social.Google)
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	if err := s.deps.State.Verify(state, "selfcheck", social.Google); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}
