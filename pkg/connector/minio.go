package connector

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// GetMinioConnector возвращает клиент MinIO, пустой endpoint означает, что хранилище не настроено
func GetMinioConnector(endpoint string, accessKey string, secretKey string, useSSL bool) (*minio.Client, error) {
	if endpoint == "" {
		return nil, nil
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
}
