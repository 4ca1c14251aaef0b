// Входные/выходные модели REST-слоя шлюза. Зеркалят контракты апстримов.
package models

import "time"

type AuthSignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthVerifyRequest struct {
	Token string `json:"token"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse — пара токенов от auth-сервиса. Refresh дополнительно
// дублируется в httpOnly cookie; поле в теле остаётся для нативных клиентов.
type AuthResponse struct {
	UserID            string    `json:"user_id"`
	AccessToken       string    `json:"access_token"`
	RefreshToken      string    `json:"refresh_token"`
	AccessExpiresAt   time.Time `json:"access_expires_at"`
	VerificationToken string    `json:"verification_token,omitempty"`
}
