package repo

import "context"

type Thumbnail interface {
	// SaveThumbnail кладёт превью ролика в объектное хранилище и возвращает его публичный адрес
	SaveThumbnail(ctx context.Context, assetID int, data []byte) (string, error)
	// Owns сообщает, что адрес уже указывает на копию в хранилище
	Owns(thumbnailURL string) bool
}
