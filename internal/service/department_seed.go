package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fitops/studio-support/internal/domain"
	"github.com/fitops/studio-support/internal/repository"
	"github.com/fitops/studio-support/internal/triage"
)

// SeedDepartments upserts every department named by the triage routing and
// escalation tables, so ticket creation always finds a provisioned row.
func SeedDepartments(ctx context.Context, repo repository.DepartmentRepository, logger *zap.Logger) error {
	for _, name := range triage.Departments() {
		dept := &domain.Department{
			Name:        name,
			Description: name + " department",
			IsActive:    true,
		}
		if err := repo.Upsert(ctx, dept); err != nil {
			return err
		}
	}
	logger.Info("departments seeded", zap.Int("count", len(triage.Departments())))
	return nil
}
