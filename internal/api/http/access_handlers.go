package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	appAccess "github.com/YakRoboticsGarage/yakrover-backend/internal/application/access"
	appPayment "github.com/YakRoboticsGarage/yakrover-backend/internal/application/payment"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/domain/wallet"
	"github.com/YakRoboticsGarage/yakrover-backend/internal/infrastructure/sse"
)

type purchaseRequest struct {
	RobotHost string `json:"robot_host"`
}

type purchaseResponse struct {
	Status    string                   `json:"status"`
	Message   string                   `json:"message"`
	Session   *appAccess.SessionStatus `json:"session"`
	PaymentTx string                   `json:"payment_tx,omitempty"`
}

// purchaseAccess maps the tagged purchase outcomes onto distinct status
// codes: 200 granted, 402 payment required or rejected, 409 conflict,
// 503 robot offline.
func (s *Server) purchaseAccess(w http.ResponseWriter, r *http.Request) {
	walletAddr := walletFromHeader(r)
	if walletAddr == "" {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wallet address required, include X-Wallet-Address header")
		return
	}
	if err := wallet.Validate(walletAddr); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}

	var req purchaseRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	if req.RobotHost == "" {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "robot_host is required")
		return
	}

	var proof *appPayment.Proof
	if header := r.Header.Get("X-Payment"); header != "" {
		proof = &appPayment.Proof{Payload: header}
	}

	result, err := s.accessSvc.Purchase(r.Context(), walletAddr, req.RobotHost, proof)
	if err != nil {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}

	switch result.Outcome {
	case appAccess.OutcomeGranted:
		sess := result.Session
		respondJSON(w, http.StatusOK, purchaseResponse{
			Status: "success",
			Message: fmt.Sprintf("Access granted to %q for %d minutes",
				sess.RobotHost, int(s.accessSvc.SessionDuration().Minutes())),
			Session:   s.accessSvc.Status(walletAddr),
			PaymentTx: sess.PaymentTx,
		})
	case appAccess.OutcomePaymentRequired:
		respondJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"x402Version": 1,
			"error":       "PAYMENT_REQUIRED",
			"accepts":     []*appPayment.Requirements{result.Requirements},
		})
	case appAccess.OutcomeRejected:
		respondError(w, http.StatusPaymentRequired, "PAYMENT_REJECTED", result.Reason)
	case appAccess.OutcomeConflict:
		respondError(w, http.StatusConflict, "CONFLICT", result.Reason)
	case appAccess.OutcomeOffline:
		respondError(w, http.StatusServiceUnavailable, "ROBOT_OFFLINE", result.Reason)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unknown purchase outcome")
	}
}

func (s *Server) accessStatus(w http.ResponseWriter, r *http.Request) {
	walletAddr := walletFromHeader(r)
	if walletAddr == "" {
		respondJSON(w, http.StatusOK, &appAccess.SessionStatus{Active: false})
		return
	}
	respondJSON(w, http.StatusOK, s.accessSvc.Status(walletAddr))
}

func (s *Server) releaseAccess(w http.ResponseWriter, r *http.Request) {
	walletAddr := walletFromHeader(r)
	if walletAddr == "" {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "wallet address required, include X-Wallet-Address header")
		return
	}
	released := s.accessSvc.Release(walletAddr)
	respondJSON(w, http.StatusOK, map[string]interface{}{"released": released})
}

func (s *Server) accessConfig(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"payment_enabled":          s.gate.Enabled(),
		"session_duration_minutes": int(s.accessSvc.SessionDuration().Minutes()),
	}
	if s.gate.Enabled() {
		resp["session_price"] = s.gate.Price()
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) eventsEndpoint(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}
	client := sse.NewClient(clientID)
	s.sseHub.Register(client)
	defer s.sseHub.Unregister(clientID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	// Send an initial comment to flush headers and keep the connection alive.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case msg := <-client.MessageChan:
			if msg == nil {
				return
			}
			payload, _ := json.Marshal(msg)
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
