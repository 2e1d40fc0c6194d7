package replace_branches

import (
	"io"
	"time"
)

// Descriptor описание одного сертификата в новом наборе
type Descriptor struct {
	SportID     int64   `json:"sportId"`
	BranchOrder int     `json:"branchOrder"`
	Certificate *string `json:"certificate,omitempty"` // имя уже загруженного файла; nil = нужен новый файл
}

// Upload загруженный файл сертификата, привязанный к виду спорта по имени поля формы
type Upload struct {
	SportID     int64
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Request модель запроса на замену набора сертификатов
type Request struct {
	UserID      int64
	Descriptors []Descriptor
	Files       []Upload
}

// Branch сертификат в ответе
type Branch struct {
	ID          int64
	SportID     int64
	BranchOrder int
	Status      string
	Certificate string
	CreatedAt   time.Time
}

// Response новый набор сертификатов тренера
type Response struct {
	CoachID    int64
	IsVerified bool
	Branches   []Branch
}
