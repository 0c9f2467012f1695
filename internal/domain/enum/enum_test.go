package enum_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/spareshop-api/internal/domain/enum"
)

func TestMovementType_JSON(t *testing.T) {
	data, err := json.Marshal(enum.MovementTypeTransferToAgent)
	require.NoError(t, err)
	assert.Equal(t, `"transfer_to_agent"`, string(data))

	var got enum.MovementType
	require.NoError(t, json.Unmarshal([]byte(`"return_from_agent"`), &got))
	assert.Equal(t, enum.MovementTypeReturnFromAgent, got)

	require.NoError(t, json.Unmarshal([]byte(`4`), &got))
	assert.Equal(t, enum.MovementTypeAdjustment, got)

	assert.Error(t, json.Unmarshal([]byte(`"teleport"`), &got))
}

func TestMovementType_Scan(t *testing.T) {
	var got enum.MovementType
	require.NoError(t, got.Scan(int64(1)))
	assert.Equal(t, enum.MovementTypeSale, got)
	assert.Error(t, got.Scan("sale"))
	assert.Equal(t, "MovementType(42)", enum.MovementType(42).String())
}

func TestReconciliationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from enum.ReconciliationStatus
		to   enum.ReconciliationStatus
		want bool
	}{
		{enum.ReconciliationInProgress, enum.ReconciliationCompleted, true},
		{enum.ReconciliationInProgress, enum.ReconciliationApproved, false},
		{enum.ReconciliationCompleted, enum.ReconciliationApproved, true},
		{enum.ReconciliationCompleted, enum.ReconciliationRejected, true},
		{enum.ReconciliationApproved, enum.ReconciliationRejected, false},
		{enum.ReconciliationRejected, enum.ReconciliationApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := enum.ParsePaymentMethod("mobile_money")
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentMethodMobileMoney, m)

	_, err = enum.ParsePaymentMethod("barter")
	assert.Error(t, err)

	am, err := enum.ParseAgentPaymentMethod("stock_return")
	require.NoError(t, err)
	assert.Equal(t, enum.AgentPaymentStockReturn, am)
}
