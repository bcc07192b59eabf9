package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/markethub-backend/internal/authz"
	"github.com/angelmondragon/markethub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/markethub-backend/pkg/errors"
	"github.com/angelmondragon/markethub-backend/pkg/permissions"
)

const (
	defaultTimeframeDays = 30
	maxTimeframeDays     = 180
	defaultTopProducts   = 5
	maxTopProducts       = 50
)

type analyticsRepository interface {
	StoreSummary(ctx context.Context, storeID uuid.UUID, since time.Time) (*Summary, error)
	StoreSalesTrend(ctx context.Context, storeID uuid.UUID, since time.Time) ([]SalesPoint, error)
	StoreTopProducts(ctx context.Context, storeID uuid.UUID, since time.Time, limit int) ([]TopProduct, error)
}

type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes store analytics guarded by VIEW_STATS.
type Service interface {
	StoreAnalytics(ctx context.Context, actorID, storeID uuid.UUID, timeframeDays, topProducts int) (*StoreAnalytics, error)
}

// ServiceParams bundles the dependencies for an analytics service.
type ServiceParams struct {
	Repo     analyticsRepository
	Stores   storeFinder
	Resolver authz.Resolver
	Now      func() time.Time
}

type service struct {
	repo     analyticsRepository
	stores   storeFinder
	resolver authz.Resolver
	now      func() time.Time
}

// NewService builds an analytics service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("permission resolver required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		stores:   params.Stores,
		resolver: params.Resolver,
		now:      params.Now,
	}, nil
}

func (s *service) StoreAnalytics(ctx context.Context, actorID, storeID uuid.UUID, timeframeDays, topProducts int) (*StoreAnalytics, error) {
	if err := s.resolver.Authorize(ctx, actorID, storeID, permissions.ViewStats); err != nil {
		return nil, err
	}

	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
	}

	if timeframeDays <= 0 {
		timeframeDays = defaultTimeframeDays
	}
	if timeframeDays > maxTimeframeDays {
		timeframeDays = maxTimeframeDays
	}
	if topProducts <= 0 {
		topProducts = defaultTopProducts
	}
	if topProducts > maxTopProducts {
		topProducts = maxTopProducts
	}

	since := s.now().UTC().AddDate(0, 0, -timeframeDays)

	summary, err := s.repo.StoreSummary(ctx, storeID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store summary")
	}
	summary.TimeframeDays = timeframeDays

	trend, err := s.repo.StoreSalesTrend(ctx, storeID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sales trend")
	}

	top, err := s.repo.StoreTopProducts(ctx, storeID, since, topProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "top products")
	}

	return &StoreAnalytics{
		Summary:     *summary,
		SalesTrend:  trend,
		TopProducts: top,
	}, nil
}
