package x402

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/YakRoboticsGarage/yakrover-backend/internal/application/payment"
)

// Facilitator is the settlement collaborator: an x402 facilitator service
// that verifies a payment proof and settles it on chain. It implements
// payment.Verifier. Refusals come back as *payment.RejectionError so the
// gate can surface them without retrying; anything else is a transport
// fault.
type Facilitator struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewFacilitator(baseURL string, timeout time.Duration, logger zerolog.Logger) *Facilitator {
	return &Facilitator{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "x402").Logger(),
	}
}

type facilitatorRequest struct {
	X402Version         int                   `json:"x402Version"`
	PaymentPayload      json.RawMessage       `json:"paymentPayload"`
	PaymentRequirements *payment.Requirements `json:"paymentRequirements"`
}

type verifyResponse struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason"`
}

type settleResponse struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason"`
	Transaction string `json:"transaction"`
	Network     string `json:"network"`
	Payer       string `json:"payer"`
}

// Settle verifies the proof against the requirements, then settles it.
func (f *Facilitator) Settle(ctx context.Context, proof *payment.Proof, req *payment.Requirements) (*payment.Settlement, error) {
	payload, err := decodeProof(proof)
	if err != nil {
		return nil, &payment.RejectionError{Reason: err.Error()}
	}
	body := facilitatorRequest{
		X402Version:         1,
		PaymentPayload:      payload,
		PaymentRequirements: req,
	}

	var verified verifyResponse
	if err := f.post(ctx, "/verify", body, &verified); err != nil {
		return nil, err
	}
	if !verified.IsValid {
		reason := verified.InvalidReason
		if reason == "" {
			reason = "payment proof invalid"
		}
		return nil, &payment.RejectionError{Reason: reason}
	}

	var settled settleResponse
	if err := f.post(ctx, "/settle", body, &settled); err != nil {
		return nil, err
	}
	if !settled.Success {
		reason := settled.ErrorReason
		if reason == "" {
			reason = "settlement failed"
		}
		return nil, &payment.RejectionError{Reason: reason}
	}

	f.logger.Debug().Str("tx", settled.Transaction).Str("network", settled.Network).Msg("payment settled")
	return &payment.Settlement{
		TxHash:  settled.Transaction,
		Network: settled.Network,
		Payer:   settled.Payer,
	}, nil
}

func (f *Facilitator) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("facilitator %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facilitator %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeProof unwraps the base64 X-Payment header into its JSON payload.
// A raw JSON object is accepted as-is.
func decodeProof(proof *payment.Proof) (json.RawMessage, error) {
	raw := []byte(proof.Payload)
	if json.Valid(raw) {
		return raw, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(proof.Payload)
	if err != nil || !json.Valid(decoded) {
		return nil, fmt.Errorf("malformed payment proof")
	}
	return decoded, nil
}
