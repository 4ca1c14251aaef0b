package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-music-stream/stream-service/internal/config"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — создают бакет с аудио и кладут в него объект;
// — проверяют:
//    New: успешное подключение и ошибку при отсутствии бакета;
//    Audio: чтение объекта целиком, по диапазону, границы диапазона
//    и отсутствие объекта (storage.ErrNotFound).
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

func startMinio(t *testing.T, createBucket bool) (*AudioStorage, *mclient.Client, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		image        = "docker.io/minio/minio:latest"
		rootUser     = "root"
		rootPassword = "rootpass"
		bucket       = "songs"
	)
	req := tc.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data", "--console-address", ":9001"},
		ExposedPorts: []string{"9000/tcp", "9001/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: false,
	})
	require.NoError(t, err)

	if createBucket {
		err = admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"})
		require.NoError(t, err)
	}

	st, newErr := New(ctx, config.S3Config{
		Endpoint:     endpoint,
		RootUser:     rootUser,
		RootPassword: rootPassword,
		Bucket:       bucket,
	})
	if !createBucket {
		require.Error(t, newErr)
		_ = c.Terminate(context.Background())
		return nil, nil, func() {}
	}
	require.NoError(t, newErr)

	cleanup := func() {
		_ = c.Terminate(context.Background())
	}
	return st, admin, cleanup
}

func putAudio(t *testing.T, admin *mclient.Client, songID uuid.UUID, payload []byte) {
	t.Helper()

	_, err := admin.PutObject(context.Background(), "songs", songID.String()+".mp3",
		bytes.NewReader(payload), int64(len(payload)),
		mclient.PutObjectOptions{ContentType: "audio/mpeg"})
	require.NoError(t, err)
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	// Без предварительного создания бакета New должен вернуть ошибку.
	_, _, _ = startMinio(t, false)
}

func TestIntegration_Audio_FullObject(t *testing.T) {
	st, admin, cleanup := startMinio(t, true)
	defer cleanup()

	songID := uuid.New()
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	putAudio(t, admin, songID, payload)

	obj, err := st.Audio(context.Background(), songID, nil)
	require.NoError(t, err)
	defer obj.Reader.Close()

	require.EqualValues(t, 4096, obj.Size)
	require.EqualValues(t, 4096, obj.TotalSize)
	require.False(t, obj.Partial())
	require.Equal(t, "audio/mpeg", obj.ContentType)

	data, err := io.ReadAll(obj.Reader)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestIntegration_Audio_Range(t *testing.T) {
	st, admin, cleanup := startMinio(t, true)
	defer cleanup()

	songID := uuid.New()
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	putAudio(t, admin, songID, payload)

	obj, err := st.Audio(context.Background(), songID, &storage.ByteRange{Start: 100, End: 199})
	require.NoError(t, err)
	defer obj.Reader.Close()

	require.EqualValues(t, 100, obj.Size)
	require.EqualValues(t, 1000, obj.TotalSize)
	require.EqualValues(t, 100, obj.Offset)
	require.True(t, obj.Partial())

	data, err := io.ReadAll(obj.Reader)
	require.NoError(t, err)
	require.Equal(t, payload[100:200], data)
}

func TestIntegration_Audio_OpenEndedRangeClampedToSize(t *testing.T) {
	st, admin, cleanup := startMinio(t, true)
	defer cleanup()

	songID := uuid.New()
	putAudio(t, admin, songID, bytes.Repeat([]byte{0x01}, 500))

	obj, err := st.Audio(context.Background(), songID, &storage.ByteRange{Start: 400, End: -1})
	require.NoError(t, err)
	defer obj.Reader.Close()

	require.EqualValues(t, 100, obj.Size)
	require.True(t, obj.Partial())
}

func TestIntegration_Audio_RangeOutOfBounds(t *testing.T) {
	st, admin, cleanup := startMinio(t, true)
	defer cleanup()

	songID := uuid.New()
	putAudio(t, admin, songID, bytes.Repeat([]byte{0x01}, 100))

	_, err := st.Audio(context.Background(), songID, &storage.ByteRange{Start: 100, End: -1})
	require.ErrorIs(t, err, storage.ErrInvalidRange)
}

func TestIntegration_Audio_NotFound(t *testing.T) {
	st, _, cleanup := startMinio(t, true)
	defer cleanup()

	_, err := st.Audio(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
