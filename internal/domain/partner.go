package domain

import (
	"time"

	"github.com/google/uuid"
)

// Partner is a rental company account. It owns vehicles, clients, contracts,
// and a private blacklist. Status and Role are managed by the identity system.
type Partner struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	Country     string    `json:"country,omitempty"`
	City        string    `json:"city,omitempty"`
	Status      string    `json:"status,omitempty"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
