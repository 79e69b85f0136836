package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/anyemp/global-dashboard-go/internal/domain/yellowcard"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
	"github.com/anyemp/global-dashboard-go/internal/pkg/fetch"
	"github.com/go-chi/chi/v5"
)

type YellowCardHandler interface {
	State(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	AddViolation(w http.ResponseWriter, r *http.Request)
	AddGreenCard(w http.ResponseWriter, r *http.Request)
	DeleteViolation(w http.ResponseWriter, r *http.Request)
	DeleteGreenCard(w http.ResponseWriter, r *http.Request)
}

type YellowCardHandlerImpl struct {
	poller PollerView[yellowcard.EmployeesWithStats]

	addViolation    *fetch.Mutation[yellowcard.AddViolationRequest, yellowcard.Acknowledgement]
	addGreenCard    *fetch.Mutation[yellowcard.AddGreenCardRequest, yellowcard.Acknowledgement]
	deleteViolation *fetch.Mutation[yellowcard.DeleteViolationRequest, yellowcard.Acknowledgement]
	deleteGreenCard *fetch.Mutation[yellowcard.DeleteGreenCardRequest, yellowcard.Acknowledgement]

	// refetch runs after every successful write; swapped in tests
	refetch func()
}

// NewYellowCardHandler wires the write endpoints to mutations. Every
// successful write triggers a poller refetch, there is no optimistic update.
// Refetch follows each request's own result; mutation callbacks only fire
// for the newest call.
func NewYellowCardHandler(yellowCardService yellowcard.YellowCardService, poller PollerView[yellowcard.EmployeesWithStats]) YellowCardHandler {
	h := &YellowCardHandlerImpl{poller: poller}
	h.refetch = func() {
		go h.poller.Refetch(context.Background())
	}

	opts := fetch.MutationOptions[yellowcard.Acknowledgement]{}
	h.addViolation = fetch.NewMutation[yellowcard.AddViolationRequest, yellowcard.Acknowledgement](yellowCardService.AddViolation, opts)
	h.addGreenCard = fetch.NewMutation[yellowcard.AddGreenCardRequest, yellowcard.Acknowledgement](yellowCardService.AddGreenCard, opts)
	h.deleteViolation = fetch.NewMutation[yellowcard.DeleteViolationRequest, yellowcard.Acknowledgement](yellowCardService.DeleteViolation, opts)
	h.deleteGreenCard = fetch.NewMutation[yellowcard.DeleteGreenCardRequest, yellowcard.Acknowledgement](yellowCardService.DeleteGreenCard, opts)
	return h
}

// State returns the poller's latest {data, loading, error}
func (h *YellowCardHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.poller.State())
}

func (h *YellowCardHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	state := h.poller.Refetch(r.Context())
	if state.Err != nil {
		response.HandleError(w, state.Err)
		return
	}
	response.Success(w, state)
}

func (h *YellowCardHandlerImpl) AddViolation(w http.ResponseWriter, r *http.Request) {
	var req yellowcard.AddViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddViolation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ack, err := h.addViolation.Mutate(r.Context(), req)
	if err != nil {
		slog.Error("AddViolation service error", "error", err)
		response.HandleError(w, err)
		return
	}
	h.refetch()
	response.Created(w, "Violation added", ack)
}

func (h *YellowCardHandlerImpl) AddGreenCard(w http.ResponseWriter, r *http.Request) {
	var req yellowcard.AddGreenCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddGreenCard decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ack, err := h.addGreenCard.Mutate(r.Context(), req)
	if err != nil {
		slog.Error("AddGreenCard service error", "error", err)
		response.HandleError(w, err)
		return
	}
	h.refetch()
	response.Created(w, "Green card added", ack)
}

func (h *YellowCardHandlerImpl) DeleteViolation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid violation ID", nil)
		return
	}

	ack, err := h.deleteViolation.Mutate(r.Context(), yellowcard.DeleteViolationRequest{ViolationID: id})
	if err != nil {
		slog.Error("DeleteViolation service error", "error", err)
		response.HandleError(w, err)
		return
	}
	h.refetch()
	response.SuccessWithMessage(w, "Violation deleted", ack)
}

func (h *YellowCardHandlerImpl) DeleteGreenCard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid green card ID", nil)
		return
	}

	ack, err := h.deleteGreenCard.Mutate(r.Context(), yellowcard.DeleteGreenCardRequest{GreenCardID: id})
	if err != nil {
		slog.Error("DeleteGreenCard service error", "error", err)
		response.HandleError(w, err)
		return
	}
	h.refetch()
	response.SuccessWithMessage(w, "Green card deleted", ack)
}
