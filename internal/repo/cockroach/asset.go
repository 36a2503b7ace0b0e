package cockroach

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

const assetColumns = `id, project_id, creator_id, video_url, platform, title, views, likes, comments,
	thumbnail_url, kpi_bonus, last_stats_update, status, created_at`

type AssetDB struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewAsset(db *sqlx.DB) repo.Asset {
	return &AssetDB{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (a *AssetDB) AddAsset(ctx context.Context, asset *entity.VideoAsset) (int, error) {
	query := `
		INSERT INTO video_asset (project_id, creator_id, video_url, platform, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := a.db.QueryRowxContext(ctx, query,
		asset.ProjectID,
		asset.CreatorID,
		asset.VideoURL,
		asset.Platform,
		asset.Status,
	).Scan(&asset.ID, &asset.CreatedAt)
	if err != nil {
		return 0, err
	}
	return asset.ID, nil
}

func (a *AssetDB) GetAsset(ctx context.Context, id int) (*entity.VideoAsset, error) {
	var asset entity.VideoAsset
	err := a.db.GetContext(ctx, &asset, `SELECT `+assetColumns+` FROM video_asset WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrAssetNotFound
		}
		return nil, err
	}
	return &asset, nil
}

func (a *AssetDB) UpdateMetrics(ctx context.Context, asset *entity.VideoAsset) error {
	query := `
		UPDATE video_asset
		SET title = $1, views = $2, likes = $3, comments = $4, thumbnail_url = $5, last_stats_update = $6
		WHERE id = $7
	`
	result, err := a.db.ExecContext(ctx, query,
		asset.Title,
		asset.Views,
		asset.Likes,
		asset.Comments,
		asset.ThumbnailURL,
		asset.LastStatsUpdate,
		asset.ID,
	)
	if err != nil {
		return err
	}
	return expectAffected(result, repo.ErrAssetNotFound)
}

func (a *AssetDB) TouchStatsUpdate(ctx context.Context, id int, at time.Time) error {
	result, err := a.db.ExecContext(ctx, `UPDATE video_asset SET last_stats_update = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return expectAffected(result, repo.ErrAssetNotFound)
}

func (a *AssetDB) UpdateBonus(ctx context.Context, id int, bonus float64) error {
	result, err := a.db.ExecContext(ctx, `UPDATE video_asset SET kpi_bonus = $1 WHERE id = $2`, bonus, id)
	if err != nil {
		return err
	}
	return expectAffected(result, repo.ErrAssetNotFound)
}

func (a *AssetDB) GetStaleAssets(ctx context.Context, olderThan time.Time, limit int) ([]*entity.VideoAsset, error) {
	// ролики, которые ещё ни разу не обновлялись, идут первыми
	builder := a.builder.
		Select(assetColumns).
		From("video_asset").
		Where(sq.NotEq{"status": entity.AssetRejected}).
		Where(sq.Or{
			sq.Eq{"last_stats_update": nil},
			sq.Lt{"last_stats_update": olderThan},
		}).
		OrderBy("last_stats_update ASC NULLS FIRST", "id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return a.selectAssets(ctx, builder)
}

func (a *AssetDB) GetAssignmentAssets(ctx context.Context, projectID, creatorID int) ([]*entity.VideoAsset, error) {
	builder := a.builder.
		Select(assetColumns).
		From("video_asset").
		Where(sq.Eq{"project_id": projectID, "creator_id": creatorID}).
		OrderBy("id ASC")
	return a.selectAssets(ctx, builder)
}

func (a *AssetDB) selectAssets(ctx context.Context, builder sq.SelectBuilder) ([]*entity.VideoAsset, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var assets []*entity.VideoAsset
	if err := a.db.SelectContext(ctx, &assets, query, args...); err != nil {
		return nil, err
	}
	return assets, nil
}

func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
