package models

// StreamURLResponse — короткоживущая ссылка на воспроизведение.
type StreamURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
