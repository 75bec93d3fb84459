package participation

import (
	"context"
	"strings"

	"github.com/gdg-garage/outing-api/internal/apperrors"
	"github.com/gdg-garage/outing-api/internal/models"
	"github.com/google/uuid"
)

const badgeLength = 8

func newBadgeCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:badgeLength])
}

// AssignBadge gives the participation a badge code, keeping one that is already set.
func (s *Service) AssignBadge(ctx context.Context, id uint) (*models.Participation, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.BadgeCode != nil && *p.BadgeCode != "" {
		return p, nil
	}
	return s.storeBadge(ctx, p)
}

// ReissueBadge always replaces the badge code.
func (s *Service) ReissueBadge(ctx context.Context, id uint) (*models.Participation, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.storeBadge(ctx, p)
}

func (s *Service) storeBadge(ctx context.Context, p *models.Participation) (*models.Participation, error) {
	code := s.newBadge()
	p.BadgeCode = &code
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperrors.FromStore("save badge", err, "")
	}
	return p, nil
}
