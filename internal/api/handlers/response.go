package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gorilla/mux"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgTimeout       = "превышено время обработки запроса"

	maxJSONBodyBytes = 1 << 20
)

// ErrInvalidPathParam возвращается, если параметр пути не является положительным числом
var ErrInvalidPathParam = errors.New("handlers: invalid path parameter")

// exposeErrors включает вывод текста внутренних ошибок в ответе (не production)
var exposeErrors atomic.Bool

// SetExposeErrors управляет выводом текста внутренних ошибок клиенту
func SetExposeErrors(expose bool) {
	exposeErrors.Store(expose)
}

// Envelope единый формат ответа API
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RespondJSON отправляет успешный ответ с данными
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Data: data})
}

// RespondMessage отправляет успешный ответ с сообщением и данными
func RespondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeEnvelope(w, status, Envelope{Success: true, Message: message, Data: data})
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, Envelope{Success: false, Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondTimeout(w http.ResponseWriter) {
	RespondError(w, http.StatusRequestTimeout, msgTimeout)
}

// RespondInternalError отправляет 500 с общим сообщением
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondInternalErrorWithCause отправляет 500; текст ошибки виден только вне production
func RespondInternalErrorWithCause(w http.ResponseWriter, err error) {
	if exposeErrors.Load() && err != nil {
		RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondInternalError(w)
}

// DecodeJSON декодирует тело запроса, неизвестные поля запрещены
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if decoder.More() {
		return errors.New("decode json: unexpected data after JSON object")
	}
	return nil
}

// PathID читает положительный int64 параметр пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidPathParam, name, raw)
	}
	return id, nil
}

// DetailMessage возвращает пояснение из ошибки вида "<sentinel>: <detail>"
// Если пояснения нет, возвращает fallback
func DetailMessage(err, sentinel error, fallback string) string {
	prefix := sentinel.Error() + ": "
	msg := err.Error()
	if idx := strings.Index(msg, prefix); idx >= 0 {
		if detail := strings.TrimSpace(msg[idx+len(prefix):]); detail != "" {
			return detail
		}
	}
	return fallback
}

func writeEnvelope(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
