package cockroach

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

// код ошибки нарушения уникальности в postgres wire протоколе
const uniqueViolation = "23505"

type ProfileDB struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewProfile(db *sqlx.DB) repo.Profile {
	return &ProfileDB{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (p *ProfileDB) AddProfile(ctx context.Context, profile *entity.CreatorProfile) (int, error) {
	query := `
		INSERT INTO creator_profile (creator_id, profile_url, platform)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := p.db.QueryRowxContext(ctx, query, profile.CreatorID, profile.ProfileURL, profile.Platform).Scan(&profile.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, repo.ErrProfileExists
		}
		return 0, err
	}
	return profile.ID, nil
}

func (p *ProfileDB) GetProfile(ctx context.Context, id int) (*entity.CreatorProfile, error) {
	query := `
		SELECT id, creator_id, profile_url, platform, followers, last_update
		FROM creator_profile
		WHERE id = $1
	`
	var profile entity.CreatorProfile
	if err := p.db.GetContext(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (p *ProfileDB) UpdateFollowers(ctx context.Context, id int, followers int64, at time.Time) error {
	result, err := p.db.ExecContext(ctx,
		`UPDATE creator_profile SET followers = $1, last_update = $2 WHERE id = $3`, followers, at, id)
	if err != nil {
		return err
	}
	return expectAffected(result, repo.ErrProfileNotFound)
}

func (p *ProfileDB) TouchProfile(ctx context.Context, id int, at time.Time) error {
	result, err := p.db.ExecContext(ctx, `UPDATE creator_profile SET last_update = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return expectAffected(result, repo.ErrProfileNotFound)
}

func (p *ProfileDB) GetStaleProfiles(ctx context.Context, olderThan time.Time, limit int) ([]*entity.CreatorProfile, error) {
	builder := p.builder.
		Select("id", "creator_id", "profile_url", "platform", "followers", "last_update").
		From("creator_profile").
		Where(sq.Or{
			sq.Eq{"last_update": nil},
			sq.Lt{"last_update": olderThan},
		}).
		OrderBy("last_update ASC NULLS FIRST", "id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	var profiles []*entity.CreatorProfile
	if err := p.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, err
	}
	return profiles, nil
}
