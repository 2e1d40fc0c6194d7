package models

import (
	"time"

	"github.com/m04kA/SMC-SportHub/internal/domain"
)

// Request модели

// CreateClubRequest запрос на создание клуба
type CreateClubRequest struct {
	Name        string  `json:"name"`
	PresidentID *int64  `json:"presidentId,omitempty"` // user id
	CoachIDs    []int64 `json:"coachIds,omitempty"`
}

// CreateGroupRequest запрос на создание группы
type CreateGroupRequest struct {
	Name    string `json:"name"`
	CoachID *int64 `json:"coachId,omitempty"` // по умолчанию тренер, создающий группу
}

// InviteRequest запрос на приглашение пользователя
type InviteRequest struct {
	UserID  int64  `json:"userId"`
	GroupID *int64 `json:"groupId,omitempty"`
}

// Response модели

// ClubResponse клуб
type ClubResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatorID   int64     `json:"creatorId"`
	PresidentID *int64    `json:"presidentId,omitempty"`
	CoachIDs    []int64   `json:"coachIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GroupResponse группа клуба
type GroupResponse struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	CoachID   int64     `json:"coachId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// InviteResponse приглашение
type InviteResponse struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	GroupID   *int64    `json:"groupId,omitempty"`
	UserID    int64     `json:"userId"`
	InvitedBy int64     `json:"invitedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// JoinRequestResponse заявка на вступление
type JoinRequestResponse struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	ClubID     int64      `json:"clubId"`
	GroupID    *int64     `json:"groupId,omitempty"`
	Status     string     `json:"status"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Методы конвертации

// FromDomainClub конвертирует domain модель в DTO
func FromDomainClub(c *domain.Club) *ClubResponse {
	coachIDs := c.CoachIDs
	if coachIDs == nil {
		coachIDs = []int64{}
	}
	return &ClubResponse{
		ID:          c.ID,
		Name:        c.Name,
		CreatorID:   c.CreatorID,
		PresidentID: c.PresidentID,
		CoachIDs:    coachIDs,
		CreatedAt:   c.CreatedAt,
	}
}

// FromDomainGroup конвертирует domain модель в DTO
func FromDomainGroup(g *domain.ClubGroup) *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		ClubID:    g.ClubID,
		CoachID:   g.CoachID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
	}
}

// FromDomainInvite конвертирует domain модель в DTO
func FromDomainInvite(i *domain.Invite) *InviteResponse {
	return &InviteResponse{
		ID:        i.ID,
		ClubID:    i.ClubID,
		GroupID:   i.GroupID,
		UserID:    i.UserID,
		InvitedBy: i.InvitedBy,
		CreatedAt: i.CreatedAt,
	}
}

// FromDomainJoinRequest конвертирует domain модель в DTO
func FromDomainJoinRequest(r *domain.JoinRequest) *JoinRequestResponse {
	return &JoinRequestResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		ClubID:     r.ClubID,
		GroupID:    r.GroupID,
		Status:     string(r.Status),
		ReviewedAt: r.ReviewedAt,
		CreatedAt:  r.CreatedAt,
	}
}
