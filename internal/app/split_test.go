package app

import (
	"math"
	"net/http"
	"strings"
	"testing"
)

type policyStub struct {
	percent float64
	fee     float64
}

func (p policyStub) SystemPercent() float64  { return p.percent }
func (p policyStub) SystemFixedFee() float64 { return p.fee }

func fixedModeCalculator(fee float64) SplitCalculator {
	return NewSplitCalculator(policyStub{percent: 0, fee: fee})
}

func percentModeCalculator(percent float64) SplitCalculator {
	return NewSplitCalculator(policyStub{percent: percent, fee: 2.00})
}

func TestCalculateSplit_FixedMode(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	result := calc.CalculateSplit(25.00, "W1")
	if !result.Success {
		t.Fatalf("expected success, got error: %+v", result.Err)
	}
	if len(result.Allocations) != 1 {
		t.Fatalf("expected exactly one allocation, got %d", len(result.Allocations))
	}

	alloc := result.Allocations[0]
	if alloc.WalletID != "W1" {
		t.Errorf("expected wallet W1, got %q", alloc.WalletID)
	}
	if alloc.FixedValue == nil || *alloc.FixedValue != 23.00 {
		t.Errorf("expected fixed value 23.00, got %v", alloc.FixedValue)
	}
	if alloc.PercentualValue != nil {
		t.Errorf("fixed-mode allocation must not carry a percentual value, got %v", *alloc.PercentualValue)
	}
}

func TestCalculateSplit_FixedModeSumInvariant(t *testing.T) {
	const fee = 2.00
	calc := fixedModeCalculator(fee)

	for _, total := range []float64{2.01, 5, 19.9, 100, 999.99} {
		result := calc.CalculateSplit(total, "W1")
		if !result.Success {
			t.Fatalf("CalculateSplit(%v) unexpectedly failed: %+v", total, result.Err)
		}
		sellerFixed := *result.Allocations[0].FixedValue
		if math.Abs(sellerFixed+fee-total) > 1e-9 {
			t.Errorf("seller %v + fee %v != total %v", sellerFixed, fee, total)
		}
	}
}

func TestCalculateSplit_ValueEqualToFeeIsRejected(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	result := calc.CalculateSplit(2.00, "W1")
	if result.Success {
		t.Fatal("expected failure when value equals the fee")
	}
	if result.Err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", result.Err.StatusCode)
	}
	if !strings.Contains(result.Err.Message, "must be greater than the system fee") {
		t.Errorf("unexpected message: %q", result.Err.Message)
	}
	if !strings.Contains(result.Err.Message, "R$ 2.00") {
		t.Errorf("expected both values formatted to two decimals, got %q", result.Err.Message)
	}
}

func TestCalculateSplit_NonPositiveValue(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	for _, total := range []float64{0, -0.01, -25} {
		result := calc.CalculateSplit(total, "W1")
		if result.Success {
			t.Fatalf("CalculateSplit(%v) should fail", total)
		}
		if result.Err.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", result.Err.StatusCode)
		}
		if !strings.Contains(result.Err.Message, "greater than zero") {
			t.Errorf("unexpected message: %q", result.Err.Message)
		}
	}
}

func TestCalculateSplit_MissingWallet(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	result := calc.CalculateSplit(25.00, "")
	if result.Success {
		t.Fatal("expected failure for empty wallet")
	}
	if result.Err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", result.Err.StatusCode)
	}
	if !strings.Contains(result.Err.Message, "no configured wallet") {
		t.Errorf("unexpected message: %q", result.Err.Message)
	}
}

func TestCalculateSplit_WalletCheckPrecedesValueCheck(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	result := calc.CalculateSplit(0, "")
	if result.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(result.Err.Message, "no configured wallet") {
		t.Errorf("wallet check must run first, got message: %q", result.Err.Message)
	}
}

func TestCalculateSplit_PercentMode(t *testing.T) {
	calc := percentModeCalculator(10)

	result := calc.CalculateSplit(100.00, "W1")
	if !result.Success {
		t.Fatalf("expected success, got error: %+v", result.Err)
	}

	alloc := result.Allocations[0]
	if alloc.PercentualValue == nil || *alloc.PercentualValue != 90 {
		t.Errorf("expected seller percent 90, got %v", alloc.PercentualValue)
	}
	if alloc.FixedValue != nil {
		t.Errorf("percent-mode allocation must not carry a fixed value, got %v", *alloc.FixedValue)
	}
}

func TestCalculateSplit_PercentModeKeepsDecimalPrecision(t *testing.T) {
	calc := percentModeCalculator(7.5)

	result := calc.CalculateSplit(50.00, "W1")
	if !result.Success {
		t.Fatalf("expected success, got error: %+v", result.Err)
	}
	if got := *result.Allocations[0].PercentualValue; got != 92.5 {
		t.Errorf("expected seller percent 92.5, got %v", got)
	}
}

func TestCalculateSplit_PercentBoundaries(t *testing.T) {
	if result := percentModeCalculator(100).CalculateSplit(100.00, "W1"); result.Success {
		t.Error("percent of 100 must be rejected")
	} else if !strings.Contains(result.Err.Message, "less than 100%") {
		t.Errorf("unexpected message: %q", result.Err.Message)
	}

	result := percentModeCalculator(99).CalculateSplit(100.00, "W1")
	if !result.Success {
		t.Fatalf("percent of 99 should succeed, got %+v", result.Err)
	}
	if got := *result.Allocations[0].PercentualValue; got != 1 {
		t.Errorf("expected seller percent 1, got %v", got)
	}
}

func TestCalculateSplit_PercentModeWinsOverFee(t *testing.T) {
	// With a percentage configured, the fixed fee is ignored even when the
	// value would not clear it.
	calc := NewSplitCalculator(policyStub{percent: 10, fee: 2.00})

	result := calc.CalculateSplit(1.00, "W1")
	if !result.Success {
		t.Fatalf("expected percentage mode to apply, got %+v", result.Err)
	}
	if got := *result.Allocations[0].PercentualValue; got != 90 {
		t.Errorf("expected seller percent 90, got %v", got)
	}
}

func TestCalculateSplit_Idempotent(t *testing.T) {
	calc := fixedModeCalculator(2.00)

	first := calc.CalculateSplit(25.00, "W1")
	second := calc.CalculateSplit(25.00, "W1")
	if *first.Allocations[0].FixedValue != *second.Allocations[0].FixedValue {
		t.Error("identical inputs must yield identical results")
	}
}
