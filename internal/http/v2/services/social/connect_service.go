package social

import (
	"context"
	"errors"
	"fmt"

	dto "github.com/dropDatabas3/hellosocial/internal/http/v2/dto/social"
	"github.com/dropDatabas3/hellosocial/internal/metrics"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/social"
)

var (
	// ErrAccessDenied is returned when the provider answers the callback with an error.
	ErrAccessDenied = errors.New("provider denied access")
	ErrMissingCode  = errors.New("authorization code is required")
)

// ConnectService implementa el flujo de conexión con proveedores.
type ConnectService interface {
	// Status lista los proveedores registrados y si userID está conectado.
	Status(ctx context.Context, userID string) ([]dto.ProviderStatus, error)
	// Connection devuelve la conexión primaria o social.ErrNoConnection.
	Connection(ctx context.Context, userID string, provider social.ProviderID) (*social.Connection, error)
	// Start firma el state y arma la URL de autorización.
	Start(ctx context.Context, userID string, provider social.ProviderID) (*dto.StartResponse, error)
	// Callback verifica el state, canjea el code y guarda la conexión.
	// A provider error is reported as ErrAccessDenied before the state is read,
	// since nothing is saved on that path.
	Callback(ctx context.Context, req dto.CallbackRequest) (*social.Connection, error)
	// Disconnect elimina la conexión. Es idempotente.
	Disconnect(ctx context.Context, userID string, provider social.ProviderID) error
}

type connectService struct {
	registry *social.Registry
	repo     social.ConnectionRepository
	state    *social.StateSigner
}

func NewConnectService(d Deps) ConnectService {
	return &connectService{registry: d.Registry, repo: d.Repo, state: d.State}
}

func (s *connectService) Status(ctx context.Context, userID string) ([]dto.ProviderStatus, error) {
	conns, err := s.repo.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find connections: %w", err)
	}
	connected := make(map[social.ProviderID]bool, len(conns))
	for _, c := range conns {
		connected[c.Provider] = true
	}

	ids := s.registry.Providers()
	out := make([]dto.ProviderStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, dto.ProviderStatus{Provider: id, Connected: connected[id]})
	}
	return out, nil
}

func (s *connectService) Connection(ctx context.Context, userID string, provider social.ProviderID) (*social.Connection, error) {
	if _, err := s.registry.Get(provider); err != nil {
		return nil, err
	}
	return s.repo.FindPrimary(ctx, userID, provider)
}

func (s *connectService) Start(ctx context.Context, userID string, provider social.ProviderID) (*dto.StartResponse, error) {
	f, err := s.registry.Get(provider)
	if err != nil {
		return nil, err
	}
	state, err := s.state.Sign(userID, provider)
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Debug("connect started",
		logger.Layer("service"), logger.Op("Start"), logger.Provider(provider.String()))
	return &dto.StartResponse{AuthorizationURL: f.AuthCodeURL(state)}, nil
}

func (s *connectService) Callback(ctx context.Context, req dto.CallbackRequest) (*social.Connection, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.connect"),
		logger.Op("Callback"),
		logger.Provider(req.Provider.String()),
	)

	f, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	if req.Error != "" {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultDenied)
		log.Info("provider denied access", logger.String("error", req.Error), logger.String("error_description", req.ErrorDescription))
		return nil, fmt.Errorf("%w: %s", ErrAccessDenied, req.Error)
	}

	if err := s.state.Verify(req.State, req.UserID, req.Provider); err != nil {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultBadState)
		log.Warn("state rejected", logger.Err(err))
		return nil, err
	}

	if req.Code == "" {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultError)
		return nil, ErrMissingCode
	}

	token, err := f.Exchange(ctx, req.Code)
	if err != nil {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultError)
		return nil, err
	}

	conn, err := f.CreateConnection(ctx, req.UserID, token)
	if err != nil {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultError)
		return nil, err
	}
	if err := s.repo.Save(ctx, *conn); err != nil {
		metrics.RecordConnect(req.Provider.String(), metrics.ResultError)
		return nil, fmt.Errorf("save connection: %w", err)
	}

	metrics.RecordConnect(req.Provider.String(), metrics.ResultSuccess)
	log.Info("connection saved", logger.String("provider_user_id", conn.ProviderUserID))
	return conn, nil
}

func (s *connectService) Disconnect(ctx context.Context, userID string, provider social.ProviderID) error {
	if _, err := s.registry.Get(provider); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, userID, provider); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	logger.From(ctx).Info("connection removed",
		logger.Layer("service"), logger.Op("Disconnect"), logger.Provider(provider.String()))
	return nil
}
