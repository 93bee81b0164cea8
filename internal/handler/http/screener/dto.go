package screener

import "github.com/AuroraDai/weihao/internal/domain/entity"

// ListResponse represents the JSON structure for screener rows.
type ListResponse struct {
	Rows        []entity.ScreenerRow `json:"rows"`
	Count       int                  `json:"count" example:"100"`
	Stale       bool                 `json:"stale" example:"false"`
	RefreshedAt string               `json:"refreshed_at,omitempty" example:"2025-10-26T12:00:00Z"`
}
