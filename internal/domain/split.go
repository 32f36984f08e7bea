/**
 * @description
 * This file defines the result types for split-payment calculations. A split
 * divides a subscription payment between the platform and a seller's payout
 * wallet at the gateway. The allocation field names follow the gateway's
 * split API, which is why they are camelCased on the wire.
 */
package domain

// RequestError is an expected, user-facing business-rule rejection. It is
// returned as data rather than raised as an error so that handlers can map
// it straight onto the HTTP response.
type RequestError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// SplitAllocation is one party's share of a split payment. Exactly one of
// FixedValue or PercentualValue is set; the gateway rejects allocations
// carrying both.
type SplitAllocation struct {
	WalletID        string   `json:"walletId"`
	FixedValue      *float64 `json:"fixedValue,omitempty"`
	PercentualValue *float64 `json:"percentualValue,omitempty"`
}

// SplitResult is the outcome of a split calculation.
type SplitResult struct {
	Success     bool              `json:"success"`
	Allocations []SplitAllocation `json:"allocations,omitempty"`
	Err         *RequestError     `json:"error,omitempty"`
}

// FixedAllocation builds an allocation carrying a fixed amount.
func FixedAllocation(walletID string, value float64) SplitAllocation {
	return SplitAllocation{WalletID: walletID, FixedValue: &value}
}

// PercentAllocation builds an allocation carrying a percentage share.
func PercentAllocation(walletID string, percent float64) SplitAllocation {
	return SplitAllocation{WalletID: walletID, PercentualValue: &percent}
}
