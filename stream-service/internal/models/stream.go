// Package models содержит доменные модели стримингового сервиса.
package models

// StreamLink — короткоживущая ссылка на воспроизведение трека.
type StreamLink struct {
	URL       string
	ExpiresIn int
}
