package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderStatusPending, OrderStatusInProgress, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusInProgress, false},
		{OrderStatusInProgress, OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.ok, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("in_progress")
	if err != nil || status != OrderStatusInProgress {
		t.Fatalf("unexpected parse result %q %v", status, err)
	}
	if _, err := ParseOrderStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if !OrderStatusCancelled.IsTerminal() || OrderStatusPending.IsTerminal() {
		t.Fatal("unexpected terminal classification")
	}
}

func TestParseFinancialOperationType(t *testing.T) {
	for _, raw := range []string{"income", "expense"} {
		typ, err := ParseFinancialOperationType(raw)
		if err != nil || !typ.IsValid() {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}
	if _, err := ParseFinancialOperationType("refund"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
