package subscription

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	apperrors "github.com/peerconnect/pairing-service/internal"
	"github.com/peerconnect/pairing-service/internal/transport"
)

type ServiceAPI interface {
	GetAllSubscriptions() ([]SubscriptionResponse, error)
	GetSubscription(id int64) (*Subscription, error)
	CreateSubscription(dto CreateSubscriptionDTO) (*Subscription, error)
	UpdateSubscription(id int64, dto CreateSubscriptionDTO) (*Subscription, error)
	DeactivateSubscription(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Service.GetAllSubscriptions()
	if err != nil {
		h.Logger.Error("GetSubscriptions: failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get subscriptions")
		return
	}

	h.WriteJSON(w, http.StatusOK, SubscriptionsResponse{Subscriptions: subs})
}

func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	sub, err := h.Service.GetSubscription(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sub.ToResponse())
}

func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var dto CreateSubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.Service.CreateSubscription(dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sub.ToResponse())
}

func (h *Handler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var dto CreateSubscriptionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.Service.UpdateSubscription(id, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sub.ToResponse())
}

func (h *Handler) DeactivateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	if err := h.Service.DeactivateSubscription(id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal error")
}
