package channel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsActionLegal(t *testing.T) {
	tests := []struct {
		name   string
		kind   ClaimKind
		action ClaimAction
		legal  bool
	}{
		{"cancel approve", ClaimCancel, ActionApprove, true},
		{"cancel reject", ClaimCancel, ActionReject, true},
		{"cancel withdraw", ClaimCancel, ActionWithdraw, true},
		{"cancel dispatch is cross-kind", ClaimCancel, ActionDispatch, false},
		{"cancel hold is cross-kind", ClaimCancel, ActionHold, false},
		{"return hold", ClaimReturn, ActionHold, true},
		{"return release hold", ClaimReturn, ActionReleaseHold, true},
		{"return collect is cross-kind", ClaimReturn, ActionCollect, false},
		{"exchange collect", ClaimExchange, ActionCollect, true},
		{"exchange dispatch", ClaimExchange, ActionDispatch, true},
		{"exchange approve is cross-kind", ClaimExchange, ActionApprove, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legal, IsActionLegal(tt.kind, tt.action))
		})
	}
}

func TestValidateClaimAction_CrossKindRejected(t *testing.T) {
	err := ValidateClaimAction(ClaimCancel, ActionDispatch, ActionParams{
		CarrierCode:    "CJGLS",
		TrackingNumber: "1234567890",
	})

	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestValidateClaimAction_RequiredParams(t *testing.T) {
	tests := []struct {
		name    string
		kind    ClaimKind
		action  ClaimAction
		params  ActionParams
		wantErr error
	}{
		{"reject without reason", ClaimReturn, ActionReject, ActionParams{}, ErrMissingActionParams},
		{"hold without reason", ClaimExchange, ActionHold, ActionParams{}, ErrMissingActionParams},
		{"dispatch without tracking", ClaimExchange, ActionDispatch, ActionParams{CarrierCode: "CJGLS"}, ErrMissingActionParams},
		{"dispatch without carrier", ClaimExchange, ActionDispatch, ActionParams{TrackingNumber: "42"}, ErrMissingActionParams},
		{"reject with reason", ClaimReturn, ActionReject, ActionParams{Reason: "damaged on arrival"}, nil},
		{"hold with reason", ClaimReturn, ActionHold, ActionParams{Reason: "awaiting photos"}, nil},
		{"dispatch complete", ClaimExchange, ActionDispatch, ActionParams{CarrierCode: "CJGLS", TrackingNumber: "42"}, nil},
		{"approve needs nothing", ClaimCancel, ActionApprove, ActionParams{}, nil},
		{"withdraw needs nothing", ClaimExchange, ActionWithdraw, ActionParams{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClaimAction(tt.kind, tt.action, tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateClaimAction_UnknownKind(t *testing.T) {
	err := ValidateClaimAction(ClaimKind("REFUND"), ActionApprove, ActionParams{})
	assert.True(t, errors.Is(err, ErrUnsupportedAction))
}

func TestLegalActions_ClosedSets(t *testing.T) {
	assert.Len(t, LegalActions(ClaimCancel), 3)
	assert.Len(t, LegalActions(ClaimReturn), 5)
	assert.Len(t, LegalActions(ClaimExchange), 6)
	assert.Empty(t, LegalActions(ClaimKind("REFUND")))
}
