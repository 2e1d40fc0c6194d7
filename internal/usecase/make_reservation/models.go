package make_reservation

import "time"

// Request модель запроса на бронирование
type Request struct {
	UserID  int64 // ID пользователя из токена
	EventID int64 // ID события
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     // ID бронирования
	ParticipantID   int64     // ID участника
	EventID         int64     // ID события
	Disposition     string    // confirmed, checked_in или waitlisted
	IsApproved      bool      // Подтверждено тренером
	IsPaid          bool      // Оплачено
	IsCheckedIn     bool      // Отметка о прибытии
	IsWaitListed    bool      // В листе ожидания
	CheckInDeadline time.Time // Начало окна check-in
	CreatedAt       time.Time // Время создания
}
