package models

// Song — песня каталога, как её отдают catalog/search сервисы.
type Song struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	DurationSec    int    `json:"duration_sec,omitempty"`
	SourceProvider string `json:"source_provider,omitempty"`
	SourceID       string `json:"source_id,omitempty"`
}

// LibraryResponse — библиотека пользователя.
type LibraryResponse struct {
	Songs []Song `json:"songs"`
}

// ImportSongRequest — запрос на импорт трека из внешнего источника.
// UserID проставляет шлюз из access-токена, клиентское значение игнорируется.
type ImportSongRequest struct {
	SourceProvider string `json:"source_provider"`
	SourceID       string `json:"source_id"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	UserID         string `json:"user_id,omitempty"`
}
