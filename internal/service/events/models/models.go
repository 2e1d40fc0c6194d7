package models

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// CreateEventRequest запрос на создание события
type CreateEventRequest struct {
	Title         string    `json:"title"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Capacity      int       `json:"capacity"`
	PricingType   string    `json:"pricingType"`
	Fee           float64   `json:"fee"`
	IsPrivate     bool      `json:"isPrivate"`
	SportID       int64     `json:"sportId"`
	StyleID       *int64    `json:"styleId,omitempty"`
	SportGroupID  *int64    `json:"sportGroupId,omitempty"`
	FacilityID    *int64    `json:"facilityId,omitempty"`
	SalonID       *int64    `json:"salonId,omitempty"`
	Location      *string   `json:"location,omitempty"`
	BackupCoachID *int64    `json:"backupCoachId,omitempty"`
}

// EventResponse ответ с данными события
type EventResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	OwnerID         int64     `json:"ownerId"`
	BackupCoachID   *int64    `json:"backupCoachId,omitempty"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	CheckInDeadline time.Time `json:"checkInDeadline"`
	Capacity        int       `json:"capacity"`
	PricingType     string    `json:"pricingType"`
	Fee             float64   `json:"fee"`
	IsPrivate       bool      `json:"isPrivate"`
	PrivateToken    *string   `json:"privateToken,omitempty"` // только для управляющих событием
	SportID         int64     `json:"sportId"`
	StyleID         *int64    `json:"styleId,omitempty"`
	SportGroupID    *int64    `json:"sportGroupId,omitempty"`
	FacilityID      *int64    `json:"facilityId,omitempty"`
	SalonID         *int64    `json:"salonId,omitempty"`
	Location        *string   `json:"location,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FromDomainEvent конвертирует domain модель в DTO
// withToken определяет, показывать ли токен приватного события
func FromDomainEvent(e *domain.Event, withToken bool) *EventResponse {
	if e == nil {
		return nil
	}

	resp := &EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		OwnerID:         e.OwnerID,
		BackupCoachID:   e.BackupCoachID,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		CheckInDeadline: e.CheckInDeadline(),
		Capacity:        e.Capacity,
		PricingType:     string(e.PricingType),
		Fee:             e.Fee,
		IsPrivate:       e.IsPrivate,
		SportID:         e.SportID,
		StyleID:         e.StyleID,
		SportGroupID:    e.SportGroupID,
		FacilityID:      e.FacilityID,
		SalonID:         e.SalonID,
		Location:        e.Location,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	if withToken {
		resp.PrivateToken = e.PrivateToken
	}

	return resp
}
