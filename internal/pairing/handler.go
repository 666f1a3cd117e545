package pairing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	apperrors "github.com/peerconnect/pairing-service/internal"
	"github.com/peerconnect/pairing-service/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *RunService
}

func NewHandler(baseHandler *transport.BaseHandler, service *RunService) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// TriggerRun starts a matching run for the subscription. The run is
// synchronous; the response carries the full result.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	subID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	result, err := h.Service.RunSubscription(r.Context(), subID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetMeetings(w http.ResponseWriter, r *http.Request) {
	subID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	meetings, err := h.Service.RecentMeetings(r.Context(), subID, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"meetings": meetings})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal error")
}
