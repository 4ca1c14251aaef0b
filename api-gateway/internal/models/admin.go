package models

import "time"

// AdminUser — пользователь в админской выдаче.
type AdminUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AdminUsersResponse — листинг пользователей.
type AdminUsersResponse struct {
	Users []AdminUser `json:"users"`
}

// AdminSongsResponse — листинг песен каталога.
type AdminSongsResponse struct {
	Songs []Song `json:"songs"`
}
