package payment

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_verifier.go -package=mocks . Verifier

import (
	"context"
	"fmt"
)

// Proof is the opaque settlement proof attached to a purchase request
// (the base64-encoded X-Payment header, passed through unparsed).
type Proof struct {
	Payload string
}

// Requirements describe what a caller must pay: the machine-readable price
// descriptor returned on the payment-required branch and echoed back to the
// settlement collaborator during verification.
type Requirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	Asset             string `json:"asset"`
	PayTo             string `json:"payTo"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	Resource          string `json:"resource"`
	Description       string `json:"description"`
	MimeType          string `json:"mimeType"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
}

// Settlement is the collaborator's evidence that a payment landed on chain.
type Settlement struct {
	TxHash  string
	Network string
	Payer   string
}

// Verifier is the external settlement collaborator. Settle returns a
// *RejectionError when the proof is refused (bad signature, insufficient
// funds, stale challenge); any other error is a transport fault.
type Verifier interface {
	Settle(ctx context.Context, proof *Proof, req *Requirements) (*Settlement, error)
}

// RejectionError carries the collaborator's refusal reason verbatim.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("payment rejected: %s", e.Reason)
}
