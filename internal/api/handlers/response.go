package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const msgInternalError = "внутренняя ошибка сервера"

// Response единый конверт HTTP ответа
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DecodeJSON декодирует тело запроса в dst
// Неизвестные поля и мусор после JSON документа считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON object")
	}

	return nil
}

// RespondJSON пишет успешный ответ с данными в конверте
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeResponse(w, status, Response{Success: true, Data: data})
}

// RespondBadRequest пишет ответ 400 с сообщением об ошибке
func RespondBadRequest(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusBadRequest, Response{Success: false, Message: message})
}

// RespondNotFound пишет ответ 404 с сообщением об ошибке
func RespondNotFound(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusNotFound, Response{Success: false, Message: message})
}

// RespondForbidden пишет ответ 403 с сообщением об ошибке
func RespondForbidden(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusForbidden, Response{Success: false, Message: message})
}

// RespondUnauthorized пишет ответ 401 с сообщением об ошибке
func RespondUnauthorized(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusUnauthorized, Response{Success: false, Message: message})
}

// RespondConflict пишет ответ 409 с сообщением об ошибке
func RespondConflict(w http.ResponseWriter, message string) {
	writeResponse(w, http.StatusConflict, Response{Success: false, Message: message})
}

// RespondInternalError пишет ответ 500 без деталей внутренней ошибки
func RespondInternalError(w http.ResponseWriter) {
	writeResponse(w, http.StatusInternalServerError, Response{Success: false, Message: msgInternalError})
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ответ уже начат, ошибку кодирования остается только проигнорировать
	_ = json.NewEncoder(w).Encode(resp)
}
