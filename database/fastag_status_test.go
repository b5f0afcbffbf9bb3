package database

import "testing"

func TestCanTransitionFasTag(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{FasTagStatusInStock, FasTagStatusAssigned, true},
		{FasTagStatusInStock, FasTagStatusDeactivated, true},
		{FasTagStatusInStock, FasTagStatusSold, false},
		{FasTagStatusAssigned, FasTagStatusSold, true},
		{FasTagStatusAssigned, FasTagStatusInStock, true}, // return to warehouse
		{FasTagStatusAssigned, FasTagStatusAssigned, true},
		{FasTagStatusSold, FasTagStatusInStock, false}, // sold is terminal
		{FasTagStatusSold, FasTagStatusAssigned, false},
		{FasTagStatusSold, FasTagStatusDeactivated, true},
		{FasTagStatusDeactivated, FasTagStatusInStock, false},
		{"available", FasTagStatusAssigned, true}, // legacy literal
	}
	for _, tc := range cases {
		if got := CanTransitionFasTag(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionFasTag(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestNormalizeFasTagStatus(t *testing.T) {
	if got := NormalizeFasTagStatus("available"); got != FasTagStatusInStock {
		t.Errorf("available normalized to %q", got)
	}
	if got := NormalizeFasTagStatus(FasTagStatusSold); got != FasTagStatusSold {
		t.Errorf("sold normalized to %q", got)
	}
}

func TestCheckFasTagTransition(t *testing.T) {
	if err := CheckFasTagTransition(FasTagStatusSold, FasTagStatusInStock); err == nil {
		t.Error("expected sold -> in_stock to be rejected")
	}
	if err := CheckFasTagTransition(FasTagStatusInStock, FasTagStatusInStock); err != nil {
		t.Errorf("same-status write should be a no-op, got %v", err)
	}
	if err := CheckFasTagTransition(FasTagStatusInStock, "lost"); err == nil {
		t.Error("expected unknown status to be rejected")
	}
}
