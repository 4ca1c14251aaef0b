package minio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// defaultContentType — тип, если бакет не хранит метаданные объекта.
const defaultContentType = "audio/mpeg"

// objectKey — ключ аудиообъекта в бакете: "<songID>.mp3".
// Загрузчик (пайплайн импорта) кладёт файлы по той же схеме.
func objectKey(songID uuid.UUID) string {
	return songID.String() + ".mp3"
}

// Audio открывает аудиообъект трека, при rng != nil — его байтовый срез.
// Границы диапазона проверяются по фактическому размеру объекта:
// запрос за границами возвращает storage.ErrInvalidRange.
func (s *AudioStorage) Audio(ctx context.Context, songID uuid.UUID, rng *storage.ByteRange) (*storage.AudioObject, error) {
	const op = "storage/minio/audio/Audio"

	key := objectKey(songID)

	stat, err := s.client.StatObject(ctx, s.bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := int64(0), stat.Size-1
	if rng != nil {
		start = rng.Start
		if rng.End >= 0 {
			end = rng.End
		}
		if end >= stat.Size {
			end = stat.Size - 1
		}

		if start < 0 || start >= stat.Size || end < start {
			return nil, storage.ErrInvalidRange
		}
	}

	opts := mclient.GetObjectOptions{}
	if rng != nil {
		if err := opts.SetRange(start, end); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	return &storage.AudioObject{
		Reader:      obj,
		Size:        end - start + 1,
		TotalSize:   stat.Size,
		Offset:      start,
		ContentType: contentType,
	}, nil
}
