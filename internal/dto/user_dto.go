package dto

import "github.com/ahmetcoskunkizilkaya/scamwatch-backend/internal/models"

type SetUserStatusRequest struct {
	Status string `json:"status"`
}

type ContactListResponse struct {
	Messages []models.ContactMessage `json:"messages"`
	Total    int64                   `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
}
