package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ecb-rate-service/internal/domain/model"
	"ecb-rate-service/internal/domain/ports"
	"ecb-rate-service/pkg/logger"
	"ecb-rate-service/pkg/utils"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RateData is the payload of a successful rate lookup. Date is the
// publication day the rate comes from.
type RateData struct {
	Base          model.Currency `json:"base"`
	Quote         model.Currency `json:"quote"`
	Rate          string         `json:"rate"`
	Date          string         `json:"date"`
	RequestedDate string         `json:"requested_date,omitempty"`
}

type Handler struct {
	service ports.ExchangeService
	log     *logger.Logger
}

func NewHandler(service ports.ExchangeService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) GetLatestRateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, ok := h.currencies(w, r)
	if !ok {
		return
	}

	result, err := h.service.Send(r.Context(), model.CurrentRequest{Base: from, Quote: to})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.sendSuccessResponse(w, toRateData(result, ""))
}

func (h *Handler) GetHistoricalRateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.sendErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, ok := h.currencies(w, r)
	if !ok {
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from, to, and date")
		return
	}
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Send(r.Context(), model.HistoricalRequest{Base: from, Quote: to, Date: date})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.sendSuccessResponse(w, toRateData(result, utils.FormatDate(date)))
}

func (h *Handler) currencies(w http.ResponseWriter, r *http.Request) (model.Currency, model.Currency, bool) {
	from := model.Currency(r.URL.Query().Get("from")).Normalize()
	to := model.Currency(r.URL.Query().Get("to")).Normalize()

	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return "", "", false
	}
	if !from.IsValid() || !to.IsValid() {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid currency code, use three letters like EUR")
		return "", "", false
	}
	return from, to, true
}

func toRateData(s *model.Success, requested string) RateData {
	return RateData{
		Base:          s.Base,
		Quote:         s.Quote,
		Rate:          s.Rate.String(),
		Date:          utils.FormatDate(s.Date),
		RequestedDate: requested,
	}
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

// StatusCode maps a service error to the HTTP status returned to clients.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrRateNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrRequestNotSupported):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrTransportFailure), errors.Is(err, model.ErrMalformedDocument):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := StatusCode(err)
	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		message = http.StatusText(statusCode)
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode, "request_id", RequestID(r.Context()))
	h.sendErrorResponse(w, statusCode, message)
}
