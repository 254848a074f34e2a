package engine

import (
	"testing"
	"time"

	"github.com/codeWithLeonard225/osmfs/pkg/models"
	"github.com/shopspring/decimal"
)

func TestCollectionDue_Staircase(t *testing.T) {
	weekly := decimal.NewFromInt(100)
	anchor := models.NewDate(2024, time.January, 1)

	cases := []struct {
		name     string
		ref      models.Date
		expected int64
		overdue  int64
	}{
		{"4 days, under one period", models.NewDate(2024, time.January, 5), 0, 0},
		{"6 days, still under", models.NewDate(2024, time.January, 7), 0, 0},
		{"exactly one week", models.NewDate(2024, time.January, 8), 100, 0},
		{"13 days, still one period", models.NewDate(2024, time.January, 14), 100, 0},
		{"two weeks", models.NewDate(2024, time.January, 15), 100, 100},
		{"three weeks", models.NewDate(2024, time.January, 22), 100, 200},
	}

	for _, tc := range cases {
		due := CollectionDue(weekly, anchor, nil, tc.ref)
		if !due.Expected.Equal(decimal.NewFromInt(tc.expected)) {
			t.Errorf("%s: expected %d expected, got %s", tc.name, tc.expected, due.Expected)
		}
		if !due.Overdue.Equal(decimal.NewFromInt(tc.overdue)) {
			t.Errorf("%s: expected %d overdue, got %s", tc.name, tc.overdue, due.Overdue)
		}
	}
}

func TestCollectionDue_AnchorPrecedence(t *testing.T) {
	weekly := decimal.NewFromInt(100)
	start := models.NewDate(2024, time.January, 1)
	lastPay := models.NewDate(2024, time.February, 1)

	// Reference is 5 weeks after the start but only 1 week after the last
	// payment; the last payment wins as the anchor.
	ref := models.NewDate(2024, time.February, 8)
	due := CollectionDue(weekly, start, &lastPay, ref)
	if !due.Expected.Equal(weekly) {
		t.Errorf("Expected 100 expected, got %s", due.Expected)
	}
	if !due.Overdue.IsZero() {
		t.Errorf("Expected no overdue when anchored on last payment, got %s", due.Overdue)
	}
}

func TestCollectionDue_NoAnchor(t *testing.T) {
	due := CollectionDue(decimal.NewFromInt(100), models.Date{}, nil, models.NewDate(2024, time.January, 8))
	if !due.Expected.IsZero() || !due.Overdue.IsZero() {
		t.Errorf("Expected zero due with no anchor, got %+v", due)
	}
}

func TestCollectionDue_ReferenceBeforeAnchor(t *testing.T) {
	anchor := models.NewDate(2024, time.March, 1)
	ref := models.NewDate(2024, time.January, 1)

	due := CollectionDue(decimal.NewFromInt(100), anchor, nil, ref)
	if !due.Expected.IsZero() || !due.Overdue.IsZero() {
		t.Errorf("Expected zero due for a reference date before the anchor, got %+v", due)
	}
}

func TestCollectionDue_ZeroInstallment(t *testing.T) {
	anchor := models.NewDate(2024, time.January, 1)
	ref := models.NewDate(2024, time.February, 5)

	due := CollectionDue(decimal.Zero, anchor, nil, ref)
	if !due.Expected.IsZero() || !due.Overdue.IsZero() {
		t.Errorf("Expected zero due for a zero installment, got %+v", due)
	}
}

func TestCollectionDue_NegativeInstallmentCoerced(t *testing.T) {
	anchor := models.NewDate(2024, time.January, 1)
	ref := models.NewDate(2024, time.January, 22)

	due := CollectionDue(decimal.NewFromInt(-100), anchor, nil, ref)
	if !due.Expected.IsZero() || !due.Overdue.IsZero() {
		t.Errorf("Expected negative installment coerced to zero, got %+v", due)
	}
}

func TestCollectionDue_ZeroLastPaymentFallsBack(t *testing.T) {
	weekly := decimal.NewFromInt(50)
	start := models.NewDate(2024, time.January, 1)
	zero := models.Date{}

	// A present-but-zero last payment date must not mask the start date.
	due := CollectionDue(weekly, start, &zero, models.NewDate(2024, time.January, 8))
	if !due.Expected.Equal(weekly) {
		t.Errorf("Expected fallback to repayment start, got %+v", due)
	}
}
