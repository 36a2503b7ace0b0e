package repo

import (
	"context"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
)

type Kpi interface {
	// GetRules возвращает правила назначения в порядке position
	GetRules(ctx context.Context, projectID, creatorID int) ([]*entity.KpiRule, error)
	// ReplaceRules атомарно заменяет все правила назначения
	ReplaceRules(ctx context.Context, projectID, creatorID int, rules []*entity.KpiRule) error
}
