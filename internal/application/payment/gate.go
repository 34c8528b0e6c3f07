package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DecisionKind tags the outcome of a gate evaluation. Every branch is an
// expected result the caller must handle, not a fault.
type DecisionKind string

const (
	// DecisionFreePass: payments disabled, the purchase may proceed.
	DecisionFreePass DecisionKind = "FREE_PASS"
	// DecisionRequired: no proof attached; the caller must settle the
	// attached requirements and retry.
	DecisionRequired DecisionKind = "PAYMENT_REQUIRED"
	// DecisionVerified: the proof settled; TxRef carries the transaction.
	DecisionVerified DecisionKind = "VERIFIED"
	// DecisionRejected: the settlement collaborator refused the proof.
	// Proofs are single-use, so the gate never retries.
	DecisionRejected DecisionKind = "REJECTED"
)

// Decision is the gate's tagged verdict on a purchase attempt.
type Decision struct {
	Kind         DecisionKind
	Requirements *Requirements
	TxRef        string
	Reason       string
}

// Config holds the gate's read-only policy inputs.
type Config struct {
	Enabled         bool
	Price           string
	Network         string
	PayToFallback   string
	SessionDuration time.Duration
}

// RecipientResolver maps a robot host to the wallet that should receive its
// session payments.
type RecipientResolver interface {
	PaymentRecipient(ctx context.Context, robotHost string) (string, error)
}

// Gate decides whether a purchase may proceed and records settlement proof
// when payment is enabled.
type Gate struct {
	cfg        Config
	recipients RecipientResolver
	verifier   Verifier
	logger     zerolog.Logger
}

func NewGate(cfg Config, recipients RecipientResolver, verifier Verifier, logger zerolog.Logger) *Gate {
	return &Gate{
		cfg:        cfg,
		recipients: recipients,
		verifier:   verifier,
		logger:     logger.With().Str("service", "payment").Logger(),
	}
}

func (g *Gate) Enabled() bool { return g.cfg.Enabled }

func (g *Gate) Price() string { return g.cfg.Price }

// Evaluate runs the two-phase payment decision for one purchase attempt.
// It may block on the settlement collaborator, so callers must not hold the
// lock table while waiting; the atomic acquire happens strictly after.
func (g *Gate) Evaluate(ctx context.Context, payer, robotHost string, proof *Proof) (*Decision, error) {
	if !g.cfg.Enabled {
		return &Decision{Kind: DecisionFreePass}, nil
	}

	req, err := g.requirementsFor(ctx, robotHost)
	if err != nil {
		return nil, err
	}

	if proof == nil {
		return &Decision{Kind: DecisionRequired, Requirements: req}, nil
	}

	settlement, err := g.verifier.Settle(ctx, proof, req)
	if err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			g.logger.Info().Str("payer", payer).Str("robot", robotHost).Str("reason", rej.Reason).Msg("payment rejected")
			return &Decision{Kind: DecisionRejected, Requirements: req, Reason: rej.Reason}, nil
		}
		return nil, fmt.Errorf("settlement collaborator: %w", err)
	}

	g.logger.Info().Str("payer", payer).Str("robot", robotHost).Str("tx", settlement.TxHash).Msg("payment verified")
	return &Decision{Kind: DecisionVerified, Requirements: req, TxRef: settlement.TxHash}, nil
}

func (g *Gate) requirementsFor(ctx context.Context, robotHost string) (*Requirements, error) {
	payTo := g.cfg.PayToFallback
	if g.recipients != nil {
		recipient, err := g.recipients.PaymentRecipient(ctx, robotHost)
		if err == nil && recipient != "" {
			payTo = recipient
		}
	}
	if payTo == "" {
		return nil, fmt.Errorf("no payment recipient configured for robot %q", robotHost)
	}

	amount, err := PriceAtomicUSDC(g.cfg.Price)
	if err != nil {
		return nil, err
	}

	return &Requirements{
		Scheme:            "exact",
		Network:           g.cfg.Network,
		Asset:             usdcAsset(g.cfg.Network),
		PayTo:             payTo,
		MaxAmountRequired: amount,
		Resource:          "/api/v1/access/purchase",
		Description: fmt.Sprintf("Robot control session for %s (%d minutes)",
			robotHost, int(g.cfg.SessionDuration.Minutes())),
		MimeType:          "application/json",
		MaxTimeoutSeconds: 60,
	}, nil
}

// PriceAtomicUSDC converts a display price like "$0.10" to atomic USDC
// units (6 decimals) without going through floats.
func PriceAtomicUSDC(price string) (string, error) {
	p := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(price), "$"))
	if p == "" {
		return "", fmt.Errorf("empty price")
	}
	whole, frac, _ := strings.Cut(p, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 6 {
		return "", fmt.Errorf("price %q has more than 6 decimal places", price)
	}
	frac = frac + strings.Repeat("0", 6-len(frac))
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid price %q", price)
		}
	}
	atomic := strings.TrimLeft(whole+frac, "0")
	if atomic == "" {
		atomic = "0"
	}
	return atomic, nil
}

func usdcAsset(network string) string {
	switch network {
	case "base":
		return "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	default: // base-sepolia
		return "0x036CbD53842c5426634e7929541eC2318f3dCF7e"
	}
}
