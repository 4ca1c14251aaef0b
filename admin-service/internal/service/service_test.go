package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-music-stream/admin-service/internal/models"
	"github.com/pribylovaa/go-music-stream/admin-service/mocks"
)

func newSvc(t *testing.T, limit int) (*Service, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	return New(st, limit), st
}

func TestUsers_OK(t *testing.T) {
	svc, st := newSvc(t, 100)

	want := []models.User{
		{ID: uuid.New(), Email: "a@example.com", Role: "admin", CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), Email: "b@example.com", Role: "user", CreatedAt: time.Now().UTC()},
	}
	st.EXPECT().Users(gomock.Any(), 100).Return(want, nil)

	got, err := svc.Users(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUsers_StorageError(t *testing.T) {
	svc, st := newSvc(t, 100)

	dbErr := errors.New("db down")
	st.EXPECT().Users(gomock.Any(), 100).Return(nil, dbErr)

	_, err := svc.Users(context.Background())
	require.ErrorIs(t, err, dbErr)
}

func TestSongs_OK(t *testing.T) {
	svc, st := newSvc(t, 100)

	want := []models.Song{
		{ID: uuid.New(), Title: "Track", Artist: "Artist", CreatedAt: time.Now().UTC()},
	}
	st.EXPECT().Songs(gomock.Any(), 100).Return(want, nil)

	got, err := svc.Songs(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestSongs_StorageError(t *testing.T) {
	svc, st := newSvc(t, 100)

	dbErr := errors.New("db down")
	st.EXPECT().Songs(gomock.Any(), 100).Return(nil, dbErr)

	_, err := svc.Songs(context.Background())
	require.ErrorIs(t, err, dbErr)
}

func TestNew_DefaultLimit(t *testing.T) {
	svc, st := newSvc(t, 0)

	st.EXPECT().Users(gomock.Any(), defaultListingLimit).Return(nil, nil)

	_, err := svc.Users(context.Background())
	require.NoError(t, err)
}
