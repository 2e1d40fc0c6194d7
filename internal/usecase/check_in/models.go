package check_in

import "time"

// Request модель запроса на отметку о прибытии
type Request struct {
	UserID  int64 // ID пользователя из токена
	EventID int64 // ID события
}

// Response модель ответа с отмеченным бронированием
type Response struct {
	ID             int64     // ID бронирования
	ParticipantID  int64     // ID участника
	EventID        int64     // ID события
	IsCheckedIn    bool      // Всегда true
	AlreadyChecked bool      // Участник был отмечен до этого запроса
	UpdatedAt      time.Time // Время обновления
}
