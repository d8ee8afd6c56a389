package order

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/orderdesk/internal/config"
	"github.com/Additional-Code/orderdesk/internal/messaging"
	ordersvc "github.com/Additional-Code/orderdesk/internal/service/order"
)

func TestOrderCreatedHandler(t *testing.T) {
	invoiced := true
	valid, _ := json.Marshal(ordersvc.OrderCreatedEvent{
		ID:         uuid.New(),
		Name:       "Order 1",
		IsInvoiced: &invoiced,
		EntryDate:  time.Now(),
	})
	missingID, _ := json.Marshal(ordersvc.OrderCreatedEvent{Name: "Order 1"})

	testCases := []struct {
		name    string
		value   []byte
		wantErr bool
		logged  int
	}{
		{name: "Success", value: valid, logged: 1},
		{name: "Bad json", value: []byte("{"), wantErr: true, logged: 1},
		{name: "Missing id", value: missingID, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			reg := NewOrderCreatedHandler(zap.New(core), config.Config{
				Messaging: config.Messaging{Kafka: config.Kafka{Topic: "orders.events"}},
			})
			require.Equal(t, "orders.events", reg.Topic)

			err := reg.Handler(context.Background(), messaging.Message{Topic: "orders.events", Value: tc.value})
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.logged, logs.Len())
		})
	}
}
