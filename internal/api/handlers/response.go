package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/reservations/models"
)

const msgInternalError = "внутренняя ошибка сервера"

var validate = validator.New()

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code      int                       `json:"code"`
	Kind      string                    `json:"kind"`
	Message   string                    `json:"message"`
	Conflicts []models.ConflictResponse `json:"conflicts,omitempty"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку, категория определяется по HTTP статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Kind:    kindForStatus(status),
		Message: message,
	})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError отправляет ошибку доменной категории.
// Для VehicleUnavailable в ответ добавляются пересекающиеся договоры.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	kind := domain.KindOf(err)
	status := StatusForKind(kind)
	if status == http.StatusInternalServerError {
		message = msgInternalError
	}

	resp := ErrorResponse{
		Code:    status,
		Kind:    kind,
		Message: message,
	}

	var unavailable *domain.UnavailableError
	if errors.As(err, &unavailable) && len(unavailable.Conflicts) > 0 {
		resp.Conflicts = models.FromDomainConflicts(unavailable.Conflicts)
	}

	RespondJSON(w, status, resp)
}

// StatusForKind возвращает HTTP статус для категории ошибки
func StatusForKind(kind string) int {
	switch kind {
	case domain.KindInvalidRange,
		domain.KindPastStartDate,
		domain.KindExcessiveDuration,
		domain.KindInvalidRate,
		domain.KindInvalidAccessory,
		domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindVehicleUnavailable, domain.KindConcurrencyConflict:
		return http.StatusConflict
	case domain.KindIllegalStatusTransition, domain.KindIllegalPaymentTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.KindInvalidInput
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConcurrencyConflict
	default:
		return domain.KindInternal
	}
}

// DecodeJSON декодирует тело запроса и проверяет теги validate
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate body: %w", err)
	}

	return nil
}
