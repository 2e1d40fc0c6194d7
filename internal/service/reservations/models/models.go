package models

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// Request модели

// ParticipantsFilter фильтры по флагам бронирования, каждый необязателен
type ParticipantsFilter struct {
	IsApproved   *bool `json:"isApproved,omitempty"`
	IsCancelled  *bool `json:"isCancelled,omitempty"`
	IsPaid       *bool `json:"isPaid,omitempty"`
	IsCheckedIn  *bool `json:"isCheckedIn,omitempty"`
	IsWaitListed *bool `json:"isWaitListed,omitempty"`
	IsJoined     *bool `json:"isJoined,omitempty"`
}

// ListParticipantsRequest запрос на список участников события
type ListParticipantsRequest struct {
	EventID int64              `json:"-"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Filters ParticipantsFilter `json:"filters"`
}

// ToDomainFilter конвертирует request в domain фильтр, page и limit должны быть уже нормализованы
func (r *ListParticipantsRequest) ToDomainFilter() domain.ReservationFilter {
	return domain.ReservationFilter{
		EventID:      r.EventID,
		IsApproved:   r.Filters.IsApproved,
		IsCancelled:  r.Filters.IsCancelled,
		IsPaid:       r.Filters.IsPaid,
		IsCheckedIn:  r.Filters.IsCheckedIn,
		IsWaitListed: r.Filters.IsWaitListed,
		IsJoined:     r.Filters.IsJoined,
		Limit:        r.Limit,
		Offset:       (r.Page - 1) * r.Limit,
	}
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64     `json:"id"`
	ParticipantID   int64     `json:"participantId"`
	EventID         int64     `json:"eventId"`
	IsApproved      bool      `json:"isApproved"`
	IsCancelled     bool      `json:"isCancelled"`
	IsPaid          bool      `json:"isPaid"`
	IsCheckedIn     bool      `json:"isCheckedIn"`
	IsWaitListed    bool      `json:"isWaitListed"`
	IsJoined        bool      `json:"isJoined"`
	CheckInDeadline time.Time `json:"checkInDeadline"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ParticipantsPageResponse страница участников события
type ParticipantsPageResponse struct {
	Items []ReservationResponse `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	return &ReservationResponse{
		ID:              r.ID,
		ParticipantID:   r.ParticipantID,
		EventID:         r.EventID,
		IsApproved:      r.IsApproved,
		IsCancelled:     r.IsCancelled,
		IsPaid:          r.IsPaid,
		IsCheckedIn:     r.IsCheckedIn,
		IsWaitListed:    r.IsWaitListed,
		IsJoined:        r.IsJoined,
		CheckInDeadline: r.CheckInDeadline,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp = append(resp, *item)
		}
	}
	return resp
}
