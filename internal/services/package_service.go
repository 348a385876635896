package services

import (
	"context"
	"time"

	"github.com/jdillon-sports/AcademyBack/internal/models"
	"go.uber.org/zap"
)

type packageStore interface {
	ListDefinitions(ctx context.Context) ([]models.PackageDefinition, error)
	ListInstancesByUserID(ctx context.Context, userID int64) ([]models.PackageInstance, error)
	MarkExpired(ctx context.Context, instanceID int64) error
}

type PackageService struct {
	packageRepo packageStore
	logger      *zap.Logger
}

func NewPackageService(packageRepo packageStore, logger *zap.Logger) *PackageService {
	return &PackageService{packageRepo: packageRepo, logger: logger}
}

func (s *PackageService) ListDefinitions(ctx context.Context) ([]models.PackageDefinition, error) {
	return s.packageRepo.ListDefinitions(ctx)
}

// ListMemberPackages returns the caller's package instances. Instances whose
// expiry has passed are reported as expired even when the stored status
// lags, and the stored status is stamped opportunistically.
func (s *PackageService) ListMemberPackages(
	ctx context.Context,
	userID int64,
) ([]models.PackageInstance, error) {
	instances, err := s.packageRepo.ListInstancesByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range instances {
		instance := &instances[i]
		if instance.Status != "expired" && instance.ExpiresAt.Before(now) {
			instance.Status = "expired"
			if err := s.packageRepo.MarkExpired(ctx, instance.ID); err != nil && s.logger != nil {
				s.logger.Warn("mark package expired",
					zap.Int64("package_instance_id", instance.ID),
					zap.Error(err),
				)
			}
		}
	}

	return instances, nil
}
