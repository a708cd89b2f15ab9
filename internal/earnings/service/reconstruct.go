package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/yieldbook/internal/earnings/domain"
	"github.com/smallbiznis/yieldbook/internal/observability/logger"
	"go.uber.org/zap"
)

// Reconstruct derives earning rows from booking tables. Failures are logged
// and produce an empty, unsorted set.
func (s *Service) Reconstruct(ctx context.Context, role domain.Role, userID snowflake.ID) []domain.Row {
	log := logger.WithUser(logger.WithContext(ctx, s.log), userID.String(), string(role))

	switch role {
	case domain.RoleProvider:
		rows, err := s.repo.ProviderBookings(ctx, s.db, userID)
		if err != nil {
			log.Warn("reconstruct provider earnings failed", zap.Error(err))
			return []domain.Row{}
		}
		return rows

	case domain.RoleLabour:
		profile, err := s.repo.FindLabourProfile(ctx, s.db, userID)
		if err != nil {
			log.Warn("lookup labour profile failed", zap.Error(err))
			return []domain.Row{}
		}
		if profile == nil {
			log.Debug("no labour profile for user")
			return []domain.Row{}
		}
		rows, err := s.repo.LabourBookings(ctx, s.db, profile.ID)
		if err != nil {
			log.Warn("reconstruct labour earnings failed",
				zap.String("labour_profile_id", profile.ID.String()),
				zap.Error(err),
			)
			return []domain.Row{}
		}
		return rows
	}

	return []domain.Row{}
}
