package service

import (
	"errors"
	"testing"
	"time"

	"github.com/minsu-dev/eduops/internal/model"
)

func km(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMatchPolicyPicksMostSpecificBand(t *testing.T) {
	policies := []model.TravelPolicy{
		{MinKm: 0, MaxKm: nil, AmountKrw: 5000, IsActive: true},
		{MinKm: 10, MaxKm: nil, AmountKrw: 9000, IsActive: true},
	}

	got, err := matchPolicy(policies, 28.4, date(2026, 3, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AmountKrw != 9000 {
		t.Fatalf("amount = %d, want 9000", got.AmountKrw)
	}
}

func TestMatchPolicyBandBounds(t *testing.T) {
	policies := []model.TravelPolicy{
		{MinKm: 0, MaxKm: km(10), AmountKrw: 3000, IsActive: true},
		{MinKm: 10, MaxKm: km(30), AmountKrw: 8000, IsActive: true},
	}

	cases := []struct {
		distance float64
		want     int64
	}{
		{0, 3000},
		{9.99, 3000},
		{10, 8000}, // upper bound is exclusive, lower inclusive
		{29.99, 8000},
	}
	for _, tc := range cases {
		got, err := matchPolicy(policies, tc.distance, date(2026, 3, 2))
		if err != nil {
			t.Fatalf("distance %.2f: unexpected error: %v", tc.distance, err)
		}
		if got.AmountKrw != tc.want {
			t.Fatalf("distance %.2f: amount = %d, want %d", tc.distance, got.AmountKrw, tc.want)
		}
	}

	if _, err := matchPolicy(policies, 30, date(2026, 3, 2)); !errors.Is(err, ErrPolicyNotFound) {
		t.Fatalf("distance 30: error = %v, want ErrPolicyNotFound", err)
	}
}

func TestMatchPolicySkipsInactiveAndOutOfWindow(t *testing.T) {
	validFrom := date(2026, 4, 1)
	validTo := date(2026, 2, 28)

	policies := []model.TravelPolicy{
		{MinKm: 0, AmountKrw: 1000, IsActive: false},
		{MinKm: 0, AmountKrw: 2000, IsActive: true, ValidFrom: &validFrom},
		{MinKm: 0, AmountKrw: 3000, IsActive: true, ValidTo: &validTo},
		{MinKm: 0, AmountKrw: 4000, IsActive: true},
	}

	got, err := matchPolicy(policies, 5, date(2026, 3, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AmountKrw != 4000 {
		t.Fatalf("amount = %d, want 4000", got.AmountKrw)
	}
}

func TestMatchPolicyNoCandidates(t *testing.T) {
	if _, err := matchPolicy(nil, 12.5, date(2026, 3, 2)); !errors.Is(err, ErrPolicyNotFound) {
		t.Fatalf("error = %v, want ErrPolicyNotFound", err)
	}
}
