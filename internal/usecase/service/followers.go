package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/usecase"
)

type Followers struct {
	profileRepo repo.Profile
	extractor   usecase.MetricsExtractor
}

func NewFollowers(profileRepo repo.Profile, extractor usecase.MetricsExtractor) usecase.Followers {
	return &Followers{
		profileRepo: profileRepo,
		extractor:   extractor,
	}
}

func (f *Followers) AddProfile(ctx context.Context, request *entity.AddProfileRequest) (*entity.CreatorProfile, error) {
	profileURL := strings.TrimSpace(request.ProfileURL)
	if _, err := url.ParseRequestURI(profileURL); err != nil || profileURL == "" {
		return nil, usecase.ErrInvalidURL
	}
	profile := &entity.CreatorProfile{
		CreatorID:  request.CreatorID,
		ProfileURL: profileURL,
		Platform:   entity.DetectPlatform(profileURL),
	}
	id, err := f.profileRepo.AddProfile(ctx, profile)
	if errors.Is(err, repo.ErrProfileExists) {
		return nil, usecase.ErrProfileExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add profile: %w", err)
	}
	profile.ID = id
	return profile, nil
}

func (f *Followers) RefreshProfile(ctx context.Context, id int) (*entity.CreatorProfile, error) {
	profile, err := f.profileRepo.GetProfile(ctx, id)
	if errors.Is(err, repo.ErrProfileNotFound) {
		return nil, usecase.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return f.refresh(ctx, profile)
}

func (f *Followers) refresh(ctx context.Context, profile *entity.CreatorProfile) (*entity.CreatorProfile, error) {
	count := f.extractor.ExtractFollowerCount(ctx, profile.ProfileURL)
	now := time.Now()
	if count <= 0 {
		// 0 означает "не удалось", прежнее значение сохраняем
		if err := f.profileRepo.TouchProfile(ctx, profile.ID, now); err != nil {
			return nil, fmt.Errorf("failed to touch profile: %w", err)
		}
		profile.LastUpdate = &now
		return profile, usecase.ErrFollowersNotFound
	}
	if err := f.profileRepo.UpdateFollowers(ctx, profile.ID, count, now); err != nil {
		return nil, fmt.Errorf("failed to update followers: %w", err)
	}
	profile.Followers = count
	profile.LastUpdate = &now
	return profile, nil
}

func (f *Followers) RefreshStale(ctx context.Context, olderThan time.Duration, limit int) (*entity.SyncSummary, error) {
	profiles, err := f.profileRepo.GetStaleProfiles(ctx, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale profiles: %w", err)
	}
	summary := &entity.SyncSummary{Total: len(profiles)}
	for _, profile := range profiles {
		if ctx.Err() != nil {
			break
		}
		_, err := f.refresh(ctx, profile)
		switch {
		case err == nil:
			summary.Updated++
		case errors.Is(err, usecase.ErrFollowersNotFound):
			summary.Unavailable++
		default:
			summary.Failed++
			log.Errorf("Ошибка обновления подписчиков профиля %d: %v", profile.ID, err)
		}
	}
	return summary, ctx.Err()
}
