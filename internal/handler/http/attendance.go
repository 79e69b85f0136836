package http

import (
	"net/http"

	"github.com/anyemp/global-dashboard-go/internal/domain/attendance"
	"github.com/anyemp/global-dashboard-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	State(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	poller PollerView[attendance.AttendanceWithStats]
}

func NewAttendanceHandler(poller PollerView[attendance.AttendanceWithStats]) AttendanceHandler {
	return &AttendanceHandlerImpl{poller: poller}
}

func (h *AttendanceHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.poller.State())
}

// Refresh polls the attendance API out of band and returns the new state
func (h *AttendanceHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	state := h.poller.Refetch(r.Context())
	if state.Err != nil {
		response.HandleError(w, state.Err)
		return
	}
	response.Success(w, state)
}
