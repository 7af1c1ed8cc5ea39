package channel

import "fmt"

// ClaimKind is the category of a buyer-initiated claim, fixed at creation by
// the platform.
type ClaimKind string

const (
	ClaimCancel   ClaimKind = "CANCEL"
	ClaimReturn   ClaimKind = "RETURN"
	ClaimExchange ClaimKind = "EXCHANGE"
)

// IsValid returns true for a known claim kind.
func (k ClaimKind) IsValid() bool {
	switch k {
	case ClaimCancel, ClaimReturn, ClaimExchange:
		return true
	default:
		return false
	}
}

// String returns the string representation of the claim kind.
func (k ClaimKind) String() string {
	return string(k)
}

// ClaimAction is one seller-side operation on a claim.
type ClaimAction string

const (
	ActionApprove     ClaimAction = "APPROVE"
	ActionReject      ClaimAction = "REJECT"
	ActionHold        ClaimAction = "HOLD"
	ActionReleaseHold ClaimAction = "RELEASE_HOLD"
	ActionWithdraw    ClaimAction = "WITHDRAW"
	ActionCollect     ClaimAction = "COLLECT"
	ActionDispatch    ClaimAction = "DISPATCH"
)

// String returns the string representation of the claim action.
func (a ClaimAction) String() string {
	return string(a)
}

// legalActions is the closed action set per claim kind. Whether the claim's
// current remote state permits the transition is the platform's call; only
// kind-vs-action membership is validated locally.
var legalActions = map[ClaimKind][]ClaimAction{
	ClaimCancel:   {ActionApprove, ActionReject, ActionWithdraw},
	ClaimReturn:   {ActionApprove, ActionReject, ActionHold, ActionReleaseHold, ActionWithdraw},
	ClaimExchange: {ActionCollect, ActionDispatch, ActionHold, ActionReleaseHold, ActionReject, ActionWithdraw},
}

// LegalActions returns the actions permitted for the given claim kind.
func LegalActions(kind ClaimKind) []ClaimAction {
	return legalActions[kind]
}

// IsActionLegal reports whether the action belongs to the kind's action set.
func IsActionLegal(kind ClaimKind, action ClaimAction) bool {
	for _, a := range legalActions[kind] {
		if a == action {
			return true
		}
	}
	return false
}

// ActionParams carries the action-specific parameters of a claim action.
type ActionParams struct {
	// Reason is required for REJECT and HOLD.
	Reason string
	// DetailedReason optionally elaborates on Reason.
	DetailedReason string
	// CarrierCode and TrackingNumber are required for DISPATCH.
	CarrierCode    string
	TrackingNumber string
	// Memo is an optional seller note accepted by APPROVE.
	Memo string
}

// ValidateClaimAction checks kind/action legality and the action's required
// parameters. It performs no network calls; a nil return means the request is
// well-formed enough to dispatch to the platform.
func ValidateClaimAction(kind ClaimKind, action ClaimAction, params ActionParams) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: unknown claim kind %q", ErrUnsupportedAction, string(kind))
	}
	if !IsActionLegal(kind, action) {
		return fmt.Errorf("%w: %s on %s claim", ErrUnsupportedAction, action, kind)
	}
	switch action {
	case ActionReject, ActionHold:
		if params.Reason == "" {
			return fmt.Errorf("%w: %s requires a reason", ErrMissingActionParams, action)
		}
	case ActionDispatch:
		if params.CarrierCode == "" || params.TrackingNumber == "" {
			return fmt.Errorf("%w: dispatch requires carrier code and tracking number", ErrMissingActionParams)
		}
	}
	return nil
}
