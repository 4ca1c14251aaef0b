// minio предоставляет реализацию storage.AudioStorage на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, настраивает
// Secure/creds и проверяет наличие целевого бакета.
// audio.go — чтение аудиообъектов, в том числе по байтовым диапазонам.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/go-music-stream/stream-service/internal/config"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// AudioStorage — адаптер MinIO для чтения аудиофайлов.
type AudioStorage struct {
	bucket string
	client *mclient.Client
}

// New создает и инициализирует клиент MinIO.
// Делает endpoint-перенастройку (убирает схему), подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg config.S3Config) (*AudioStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.RootUser, cfg.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &AudioStorage{bucket: cfg.Bucket, client: client}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.AudioStorage = (*AudioStorage)(nil)
