package service

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/entity"
	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

type memoryAssets struct {
	mu           sync.Mutex
	assets       map[int]*entity.VideoAsset
	nextID       int
	bonusWrites  int
	metricWrites int
	touches      int
}

func newMemoryAssets(assets ...*entity.VideoAsset) *memoryAssets {
	m := &memoryAssets{assets: map[int]*entity.VideoAsset{}}
	for _, a := range assets {
		m.assets[a.ID] = a
		m.nextID = max(m.nextID, a.ID)
	}
	return m
}

func (m *memoryAssets) AddAsset(_ context.Context, asset *entity.VideoAsset) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *asset
	stored.ID = m.nextID
	m.assets[stored.ID] = &stored
	return stored.ID, nil
}

func (m *memoryAssets) GetAsset(_ context.Context, id int) (*entity.VideoAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return nil, repo.ErrAssetNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memoryAssets) UpdateMetrics(_ context.Context, asset *entity.VideoAsset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[asset.ID]
	if !ok {
		return repo.ErrAssetNotFound
	}
	m.metricWrites++
	a.Title, a.Views, a.Likes, a.Comments = asset.Title, asset.Views, asset.Likes, asset.Comments
	a.ThumbnailURL = asset.ThumbnailURL
	a.LastStatsUpdate = asset.LastStatsUpdate
	return nil
}

func (m *memoryAssets) TouchStatsUpdate(_ context.Context, id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return repo.ErrAssetNotFound
	}
	m.touches++
	a.LastStatsUpdate = &at
	return nil
}

func (m *memoryAssets) UpdateBonus(_ context.Context, id int, bonus float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return repo.ErrAssetNotFound
	}
	m.bonusWrites++
	// kpi_bonus в базе DECIMAL(18,2)
	a.KpiBonus = math.Round(bonus*100) / 100
	return nil
}

func (m *memoryAssets) GetStaleAssets(_ context.Context, olderThan time.Time, limit int) ([]*entity.VideoAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []*entity.VideoAsset
	for _, a := range m.assets {
		if a.Status == entity.AssetRejected {
			continue
		}
		if a.LastStatsUpdate == nil || a.LastStatsUpdate.Before(olderThan) {
			copied := *a
			stale = append(stale, &copied)
		}
	}
	slices.SortFunc(stale, func(x, y *entity.VideoAsset) int { return x.ID - y.ID })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

func (m *memoryAssets) GetAssignmentAssets(_ context.Context, projectID, creatorID int) ([]*entity.VideoAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*entity.VideoAsset
	for _, a := range m.assets {
		if a.ProjectID == projectID && a.CreatorID == creatorID {
			copied := *a
			result = append(result, &copied)
		}
	}
	slices.SortFunc(result, func(x, y *entity.VideoAsset) int { return x.ID - y.ID })
	return result, nil
}

func (m *memoryAssets) get(id int) *entity.VideoAsset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[id]
}

type memoryKpi struct {
	rules    map[[2]int][]*entity.KpiRule
	replaces int
}

func newMemoryKpi() *memoryKpi {
	return &memoryKpi{rules: map[[2]int][]*entity.KpiRule{}}
}

func (m *memoryKpi) GetRules(_ context.Context, projectID, creatorID int) ([]*entity.KpiRule, error) {
	return m.rules[[2]int{projectID, creatorID}], nil
}

func (m *memoryKpi) ReplaceRules(_ context.Context, projectID, creatorID int, rules []*entity.KpiRule) error {
	m.replaces++
	for i, r := range rules {
		r.ID = i + 1
	}
	m.rules[[2]int{projectID, creatorID}] = rules
	return nil
}

type memoryProfiles struct {
	profiles map[int]*entity.CreatorProfile
	nextID   int
}

func (m *memoryProfiles) AddProfile(_ context.Context, profile *entity.CreatorProfile) (int, error) {
	for _, p := range m.profiles {
		if p.CreatorID == profile.CreatorID && p.ProfileURL == profile.ProfileURL {
			return 0, repo.ErrProfileExists
		}
	}
	m.nextID++
	stored := *profile
	stored.ID = m.nextID
	m.profiles[stored.ID] = &stored
	return stored.ID, nil
}

func (m *memoryProfiles) GetProfile(_ context.Context, id int) (*entity.CreatorProfile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, repo.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memoryProfiles) UpdateFollowers(_ context.Context, id int, followers int64, at time.Time) error {
	p, ok := m.profiles[id]
	if !ok {
		return repo.ErrProfileNotFound
	}
	p.Followers = followers
	p.LastUpdate = &at
	return nil
}

func (m *memoryProfiles) TouchProfile(_ context.Context, id int, at time.Time) error {
	p, ok := m.profiles[id]
	if !ok {
		return repo.ErrProfileNotFound
	}
	p.LastUpdate = &at
	return nil
}

func (m *memoryProfiles) GetStaleProfiles(_ context.Context, olderThan time.Time, limit int) ([]*entity.CreatorProfile, error) {
	var stale []*entity.CreatorProfile
	for _, p := range m.profiles {
		if p.LastUpdate == nil || p.LastUpdate.Before(olderThan) {
			copied := *p
			stale = append(stale, &copied)
		}
	}
	slices.SortFunc(stale, func(x, y *entity.CreatorProfile) int { return x.ID - y.ID })
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

// stubExtractor отдаёт заранее заданные результаты по ссылке
type stubExtractor struct {
	mu        sync.Mutex
	results   map[string]entity.ExtractResult
	followers map[string]int64
	calls     int
}

func (s *stubExtractor) Extract(_ context.Context, videoURL string) entity.ExtractResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if r, ok := s.results[videoURL]; ok {
		return r
	}
	return entity.ExtractResult{Status: entity.ExtractUnavailable, Platform: entity.DetectPlatform(videoURL)}
}

func (s *stubExtractor) ExtractFollowerCount(_ context.Context, profileURL string) int64 {
	return s.followers[profileURL]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*entity.AssetEvent
}

func (p *recordingPublisher) PublishAssetEvent(_ context.Context, event *entity.AssetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type recordingNotifier struct {
	notified []int
}

func (n *recordingNotifier) NotifyMetricsUnavailable(_ context.Context, asset *entity.VideoAsset) error {
	n.notified = append(n.notified, asset.ID)
	return nil
}

type stubDownloader struct {
	data  []byte
	err   error
	calls int
}

func (d *stubDownloader) Bytes(context.Context, string) ([]byte, error) {
	d.calls++
	return d.data, d.err
}

type memoryThumbnails struct {
	saved map[int][]byte
}

func (m *memoryThumbnails) SaveThumbnail(_ context.Context, assetID int, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty thumbnail")
	}
	m.saved[assetID] = data
	return "https://cdn.example.com/asset-thumbnails/asset.jpg", nil
}

func (m *memoryThumbnails) Owns(thumbnailURL string) bool {
	return strings.HasPrefix(thumbnailURL, "https://cdn.example.com/asset-thumbnails/")
}

func success(m entity.Metrics) entity.ExtractResult {
	return entity.ExtractResult{Status: entity.ExtractSuccess, Metrics: m, Strategy: "stub"}
}

func ptr[T any](v T) *T { return &v }
