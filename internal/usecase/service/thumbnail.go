package service

import (
	"context"
	"fmt"

	"github.com/ylevin1989/hyperlift-creator-cabinet-sub000/internal/repo"
)

// Downloader скачивает файл целиком. Реализуется pkg/fetch.Client.
type Downloader interface {
	Bytes(ctx context.Context, rawURL string) ([]byte, error)
}

// ThumbnailMirror копирует превью с площадки в собственное хранилище,
// ссылки площадок со временем протухают.
type ThumbnailMirror struct {
	downloader Downloader
	store      repo.Thumbnail
}

func NewThumbnailMirror(downloader Downloader, store repo.Thumbnail) *ThumbnailMirror {
	return &ThumbnailMirror{
		downloader: downloader,
		store:      store,
	}
}

// Mirrored - превью уже лежит в хранилище, повторно с площадки не качаем
func (m *ThumbnailMirror) Mirrored(thumbnailURL string) bool {
	return thumbnailURL != "" && m.store.Owns(thumbnailURL)
}

func (m *ThumbnailMirror) Mirror(ctx context.Context, assetID int, sourceURL string) (string, error) {
	data, err := m.downloader.Bytes(ctx, sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to download thumbnail: %w", err)
	}
	return m.store.SaveThumbnail(ctx, assetID, data)
}
