package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appRegistry "github.com/YakRoboticsGarage/yakrover-backend/internal/application/registry"
)

type robotCreateRequest struct {
	Name          string  `json:"name"`
	MotorIP       string  `json:"motor_ip"`
	CameraIP      string  `json:"camera_ip"`
	WalletAddress string  `json:"wallet_address"`
	OwnerWallet   *string `json:"owner_wallet,omitempty"`
}

type robotUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	MotorIP     *string `json:"motor_ip,omitempty"`
	CameraIP    *string `json:"camera_ip,omitempty"`
	OwnerWallet *string `json:"owner_wallet,omitempty"`
}

func (s *Server) createRobot(w http.ResponseWriter, r *http.Request) {
	var req robotCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.Name == "" || req.MotorIP == "" || req.WalletAddress == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "name, motor_ip and wallet_address are required")
		return
	}
	if req.CameraIP == "" {
		req.CameraIP = req.MotorIP
	}

	result, err := s.registrySvc.Create(r.Context(), appRegistry.CreateInput{
		Name:          req.Name,
		MotorIP:       req.MotorIP,
		CameraIP:      req.CameraIP,
		WalletAddress: req.WalletAddress,
		OwnerWallet:   req.OwnerWallet,
	})
	if err != nil {
		if errors.Is(err, appRegistry.ErrNameTaken) {
			respondError(w, http.StatusConflict, "CONFLICT", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Existing {
		w.Header().Set("X-Robot-Existing", "true")
		status = http.StatusOK
	}
	if result.Reactivated {
		w.Header().Set("X-Robot-Reactivated", "true")
		status = http.StatusOK
	}
	respondJSON(w, status, result.Robot)
}

func (s *Server) listRobots(w http.ResponseWriter, r *http.Request) {
	robots, err := s.registrySvc.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"robots": robots, "total": len(robots)})
}

func (s *Server) getRobot(w http.ResponseWriter, r *http.Request) {
	id, err := parseRobotID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid robotId")
		return
	}
	rb, err := s.registrySvc.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rb)
}

func (s *Server) updateRobot(w http.ResponseWriter, r *http.Request) {
	id, err := parseRobotID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid robotId")
		return
	}
	var req robotUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	rb, err := s.registrySvc.Update(r.Context(), id, appRegistry.UpdateInput{
		Name:        req.Name,
		MotorIP:     req.MotorIP,
		CameraIP:    req.CameraIP,
		OwnerWallet: req.OwnerWallet,
	})
	if err != nil {
		if errors.Is(err, appRegistry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rb)
}

func (s *Server) deleteRobot(w http.ResponseWriter, r *http.Request) {
	id, err := parseRobotID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid robotId")
		return
	}
	if err := s.registrySvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, appRegistry.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRobotID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "robotId"))
}
