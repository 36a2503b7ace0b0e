package cockroach

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

type KpiDB struct {
	db *sqlx.DB
}

func NewKpi(db *sqlx.DB) repo.Kpi {
	return &KpiDB{db: db}
}

func (k *KpiDB) GetRules(ctx context.Context, projectID, creatorID int) ([]*entity.KpiRule, error) {
	query := `
		SELECT id, project_id, creator_id, position, metric, rate, target, rate_unit, updated_at
		FROM kpi_rule
		WHERE project_id = $1 AND creator_id = $2
		ORDER BY position ASC
	`
	var rules []*entity.KpiRule
	if err := k.db.SelectContext(ctx, &rules, query, projectID, creatorID); err != nil {
		return nil, err
	}
	return rules, nil
}

func (k *KpiDB) ReplaceRules(ctx context.Context, projectID, creatorID int, rules []*entity.KpiRule) error {
	tx, err := k.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kpi_rule WHERE project_id = $1 AND creator_id = $2`, projectID, creatorID); err != nil {
		return fmt.Errorf("failed to delete kpi rules: %w", err)
	}

	query := `
		INSERT INTO kpi_rule (project_id, creator_id, position, metric, rate, target, rate_unit, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for _, rule := range rules {
		err := tx.QueryRowxContext(ctx, query,
			projectID,
			creatorID,
			rule.Position,
			rule.Metric,
			rule.Rate,
			rule.Target,
			rule.RateUnit,
			rule.UpdatedAt,
		).Scan(&rule.ID)
		if err != nil {
			return fmt.Errorf("failed to insert kpi rule %d: %w", rule.Position, err)
		}
	}
	return tx.Commit()
}
