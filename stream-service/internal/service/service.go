// Package service реализует бизнес-логику стриминга: выдачу
// короткоживущих ссылок на воспроизведение и отдачу аудио по ним.
package service

import (
	"errors"

	"github.com/pribylovaa/go-music-stream/pkg/security"
	"github.com/pribylovaa/go-music-stream/stream-service/internal/storage"
)

// Ошибки уровня сервиса. Транспорт отображает их в HTTP-статусы.
// Причины отказа по stream-токену намеренно различимы: они пишутся
// в лог и проверяются в тестах, наружу все уходят одинаковым 401.
var (
	// ErrInvalidArgument — некорректные входные данные.
	// Транспорт: HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSongNotFound — трека нет в каталоге или аудио нет в бакете.
	// Транспорт: HTTP 404.
	ErrSongNotFound = errors.New("song not found")
	// ErrNotInLibrary — трек существует, но не принадлежит пользователю.
	// Транспорт: HTTP 403.
	ErrNotInLibrary = errors.New("song not in user library")
	// ErrInvalidToken — битый stream-токен: формат, подпись или срок.
	// Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid stream token")
	// ErrWrongTokenType — подпись корректна, но claim type != "stream".
	// Транспорт: HTTP 401.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrSongMismatch — токен выписан на другой трек.
	// Транспорт: HTTP 401.
	ErrSongMismatch = errors.New("stream token song mismatch")
	// ErrMissingSubject — в токене нет владельца.
	// Транспорт: HTTP 401.
	ErrMissingSubject = errors.New("stream token missing subject")
	// ErrInvalidRange — Range-заголовок вне границ объекта.
	// Транспорт: HTTP 416.
	ErrInvalidRange = errors.New("invalid range")
)

// Service — слой бизнес-логики стриминга.
type Service struct {
	ownership  storage.OwnershipStorage
	audio      storage.AudioStorage
	tokens     *security.Tokens
	publicBase string
}

// New создаёт Service поверх хранилищ и выпускателя токенов.
// publicBase — внешний базовый URL, на котором доступен /public/stream.
func New(ownership storage.OwnershipStorage, audio storage.AudioStorage, tokens *security.Tokens, publicBase string) *Service {
	return &Service{
		ownership:  ownership,
		audio:      audio,
		tokens:     tokens,
		publicBase: publicBase,
	}
}
