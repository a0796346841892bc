package model

import "testing"

func TestOrder_Side(t *testing.T) {
	tests := []struct {
		name   string
		amount int
		want   string
	}{
		{"buy", 5, "buy"},
		{"sell", -3, "sell"},
		{"zero defaults to buy", 0, "buy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Ticker: "NVDA", Amount: tt.amount}
			if got := o.Side(); got != tt.want {
				t.Errorf("Side() = %q, want %q", got, tt.want)
			}
		})
	}
}
