package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/pkg/security"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
	"github.com/pribylovaa/go-music-stream/stream-service/mocks"
)

const publicBase = "http://stream.local"

func testTokens() *security.Tokens {
	return security.NewTokens(security.Config{
		Secret:     "unit-secret",
		AccessTTL:  30 * time.Second,
		RefreshTTL: 24 * time.Hour,
		StreamTTL:  90 * time.Second,
	})
}

func newSvc(t *testing.T) (*Service, *mocks.MockOwnershipStorage, *mocks.MockAudioStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	own := mocks.NewMockOwnershipStorage(ctrl)
	audio := mocks.NewMockAudioStorage(ctrl)

	return New(own, audio, testTokens(), publicBase), own, audio
}

func audioObject(payload string) *storage.AudioObject {
	return &storage.AudioObject{
		Reader:      io.NopCloser(strings.NewReader(payload)),
		Size:        int64(len(payload)),
		TotalSize:   int64(len(payload)),
		ContentType: "audio/mpeg",
	}
}

func TestStreamURL_OK(t *testing.T) {
	svc, own, _ := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(true, nil)

	link, err := svc.StreamURL(context.Background(), userID, songID)
	require.NoError(t, err)
	require.Equal(t, 90, link.ExpiresIn)
	require.Contains(t, link.URL, publicBase+"/public/stream/"+songID.String()+"?token=")

	// Токен из ссылки должен проходить проверку на тот же трек.
	token := strings.TrimPrefix(link.URL, publicBase+"/public/stream/"+songID.String()+"?token=")
	claims, err := testTokens().ParseStream(token, songID.String())
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.Subject)
}

func TestStreamURL_NotOwned(t *testing.T) {
	svc, own, _ := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(false, nil)

	_, err := svc.StreamURL(context.Background(), userID, songID)
	require.ErrorIs(t, err, ErrNotInLibrary)
}

func TestStreamURL_SongMissing(t *testing.T) {
	svc, own, _ := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(false, storage.ErrNotFound)

	_, err := svc.StreamURL(context.Background(), userID, songID)
	require.ErrorIs(t, err, ErrSongNotFound)
}

func TestStreamURL_StorageError(t *testing.T) {
	svc, own, _ := newSvc(t)

	dbErr := errors.New("db down")
	own.EXPECT().UserOwnsSong(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, dbErr)

	_, err := svc.StreamURL(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, dbErr)
}

func TestStream_OK(t *testing.T) {
	svc, own, audio := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	token, err := testTokens().NewStreamToken(userID.String(), songID.String(), 0)
	require.NoError(t, err)

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(true, nil)
	audio.EXPECT().Audio(gomock.Any(), songID, gomock.Nil()).Return(audioObject("payload"), nil)

	obj, err := svc.Stream(context.Background(), songID, token, nil)
	require.NoError(t, err)

	data, err := io.ReadAll(obj.Reader)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
	require.False(t, obj.Partial())
}

func TestStream_GarbageToken(t *testing.T) {
	svc, _, _ := newSvc(t)

	_, err := svc.Stream(context.Background(), uuid.New(), "not-a-jwt", nil)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestStream_AccessTokenRejected(t *testing.T) {
	svc, _, _ := newSvc(t)

	songID := uuid.New()
	access, err := testTokens().NewAccessToken(uuid.NewString(), "user")
	require.NoError(t, err)

	_, err = svc.Stream(context.Background(), songID, access, nil)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestStream_WrongSong(t *testing.T) {
	svc, _, _ := newSvc(t)

	token, err := testTokens().NewStreamToken(uuid.NewString(), uuid.NewString(), 0)
	require.NoError(t, err)

	_, err = svc.Stream(context.Background(), uuid.New(), token, nil)
	require.ErrorIs(t, err, ErrSongMismatch)
}

func TestStream_ExpiredToken(t *testing.T) {
	svc, _, _ := newSvc(t)

	songID := uuid.New()
	expired := security.NewTokens(security.Config{
		Secret:    "unit-secret",
		StreamTTL: -time.Minute,
	})
	token, err := expired.NewStreamToken(uuid.NewString(), songID.String(), 0)
	require.NoError(t, err)

	_, err = svc.Stream(context.Background(), songID, token, nil)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestStream_OwnershipRevoked(t *testing.T) {
	svc, own, _ := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	token, err := testTokens().NewStreamToken(userID.String(), songID.String(), 0)
	require.NoError(t, err)

	// Токен ещё жив, но трек уже убран из библиотеки.
	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(false, nil)

	_, err = svc.Stream(context.Background(), songID, token, nil)
	require.ErrorIs(t, err, ErrNotInLibrary)
}

func TestStream_AudioMissing(t *testing.T) {
	svc, own, audio := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()

	token, err := testTokens().NewStreamToken(userID.String(), songID.String(), 0)
	require.NoError(t, err)

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(true, nil)
	audio.EXPECT().Audio(gomock.Any(), songID, gomock.Nil()).Return(nil, storage.ErrNotFound)

	_, err = svc.Stream(context.Background(), songID, token, nil)
	require.ErrorIs(t, err, ErrSongNotFound)
}

func TestStream_RangeForwarded(t *testing.T) {
	svc, own, audio := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()
	rng := &storage.ByteRange{Start: 0, End: 99}

	token, err := testTokens().NewStreamToken(userID.String(), songID.String(), 0)
	require.NoError(t, err)

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(true, nil)
	audio.EXPECT().Audio(gomock.Any(), songID, rng).Return(&storage.AudioObject{
		Reader:      io.NopCloser(strings.NewReader(strings.Repeat("x", 100))),
		Size:        100,
		TotalSize:   1000,
		Offset:      0,
		ContentType: "audio/mpeg",
	}, nil)

	obj, err := svc.Stream(context.Background(), songID, token, rng)
	require.NoError(t, err)
	require.True(t, obj.Partial())
	require.EqualValues(t, 100, obj.Size)
}

func TestStream_BadRange(t *testing.T) {
	svc, own, audio := newSvc(t)

	userID := uuid.New()
	songID := uuid.New()
	rng := &storage.ByteRange{Start: 99999, End: -1}

	token, err := testTokens().NewStreamToken(userID.String(), songID.String(), 0)
	require.NoError(t, err)

	own.EXPECT().UserOwnsSong(gomock.Any(), userID, songID).Return(true, nil)
	audio.EXPECT().Audio(gomock.Any(), songID, rng).Return(nil, storage.ErrInvalidRange)

	_, err = svc.Stream(context.Background(), songID, token, rng)
	require.ErrorIs(t, err, ErrInvalidRange)
}
