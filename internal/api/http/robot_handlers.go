package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/robotctl"
)

type commandResponse struct {
	Status  string `json:"status"`
	Command string `json:"command"`
}

func (s *Server) motorCommand(w http.ResponseWriter, r *http.Request) {
	command := chi.URLParam(r, "command")
	walletAddr := walletFromContext(r.Context())

	_, err := s.robotSvc.Command(r.Context(), walletAddr, command)
	if err != nil {
		switch {
		case errors.Is(err, robotctl.ErrUnknownCommand):
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown motor command "+command)
		case errors.Is(err, robotctl.ErrNoSession):
			respondError(w, http.StatusForbidden, "NO_SESSION", "no robot bound to session")
		case errors.Is(err, robotctl.ErrRobotOffline):
			respondError(w, http.StatusServiceUnavailable, "ROBOT_OFFLINE", "robot motor offline")
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return
	}

	s.metrics.MotorCommandsTotal.WithLabelValues(command).Inc()
	respondJSON(w, http.StatusOK, commandResponse{Status: "ok", Command: command})
}

func (s *Server) cameraFrame(w http.ResponseWriter, r *http.Request) {
	walletAddr := walletFromContext(r.Context())

	frame, err := s.robotSvc.Frame(r.Context(), walletAddr)
	if err != nil {
		switch {
		case errors.Is(err, robotctl.ErrNoSession):
			respondError(w, http.StatusForbidden, "NO_SESSION", "no robot bound to session")
		case errors.Is(err, robotctl.ErrRobotOffline):
			respondError(w, http.StatusServiceUnavailable, "ROBOT_OFFLINE", "robot camera offline")
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame)
}

func (s *Server) robotStatus(w http.ResponseWriter, r *http.Request) {
	robotHost := r.URL.Query().Get("robot_host")
	if robotHost == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "robot_host query parameter required")
		return
	}
	respondJSON(w, http.StatusOK, s.robotSvc.Status(r.Context(), robotHost))
}
