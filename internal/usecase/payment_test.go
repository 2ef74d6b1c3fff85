package usecase

import (
	"context"
	"testing"
	"time"

	"cinema-checkout/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSimulatedPayment_Charge(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		decline      []string
		expectedKind entity.ErrorKind
	}{
		{"Approved", "UPI", nil, ""},
		{"Approved when another method declines", "UPI", []string{"Wallet"}, ""},
		{"Declined", "Wallet", []string{"Wallet"}, entity.ErrPaymentDeclined},
		{"Declined ignoring case", "wallet", []string{"Wallet"}, entity.ErrPaymentDeclined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := NewSimulatedPayment(0, tt.decline, zap.NewNop())
			err := payment.Charge(context.Background(), PaymentRequest{ShowID: "s1", Method: tt.method, Amount: 120})

			if tt.expectedKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.expectedKind, entity.KindOf(err))
		})
	}
}

func TestSimulatedPayment_Interrupted(t *testing.T) {
	payment := NewSimulatedPayment(time.Hour, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := payment.Charge(ctx, PaymentRequest{ShowID: "s1", Method: "UPI"})

	assert.Equal(t, entity.ErrPaymentDeclined, entity.KindOf(err))
	assert.Equal(t, "Payment interrupted", entity.ReasonOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}
