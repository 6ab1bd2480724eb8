package social

import (
	"context"
	"fmt"

	dto "github.com/dropDatabas3/hellosocial/internal/http/v2/dto/social"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
	"github.com/dropDatabas3/hellosocial/internal/social"
	"github.com/dropDatabas3/hellosocial/internal/util"
)

// HomeService decide qué ve GET /.
type HomeService interface {
	Home(ctx context.Context, userID string) (*dto.HomeResponse, error)
}

type homeService struct {
	provider  social.ProviderID
	gate      *social.Gate
	registry  *social.Registry
	repo      social.ConnectionRepository
	presenter social.Presenter
}

func NewHomeService(d Deps) HomeService {
	return &homeService{
		provider: d.HomeProvider,
		gate:     social.NewGate(d.Repo),
		registry: d.Registry,
		repo:     d.Repo,
	}
}

// Home runs the gate first. The presenter is reached only when the gate
// reports a connection, and it reads the profile once.
func (s *homeService) Home(ctx context.Context, userID string) (*dto.HomeResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.home"),
		logger.Op("Home"),
		logger.Provider(s.provider.String()),
	)

	res, err := s.gate.CheckConnection(ctx, userID, s.provider)
	if err != nil {
		return nil, fmt.Errorf("check connection: %w", err)
	}
	if !res.Connected {
		log.Debug("not connected, redirecting", logger.String("redirect", res.Redirect))
		return &dto.HomeResponse{Provider: s.provider, Redirect: res.Redirect}, nil
	}

	client, err := s.registry.CurrentClient(ctx, s.repo, userID, s.provider)
	if err != nil {
		return nil, fmt.Errorf("current client: %w", err)
	}
	if client == nil {
		// removida entre el gate y la lectura
		return &dto.HomeResponse{Provider: s.provider, Redirect: s.provider.ConnectPath()}, nil
	}

	vm, err := s.presenter.Present(ctx, client)
	if err != nil {
		return nil, err
	}
	if p, ok := vm.Profile(s.provider); ok {
		log.Debug("profile presented", logger.String("profile_id", p.ID), logger.String("email", util.MaskEmail(p.Email)))
	}
	return &dto.HomeResponse{Provider: s.provider, ViewModel: vm}, nil
}
