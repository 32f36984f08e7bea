/**
 * @description
 * Split-payment calculation for seller subscriptions. The platform retains
 * either a configured percentage of each payment or a flat fee; the remainder
 * is allocated to the seller's payout wallet at the gateway. Percentage mode
 * wins whenever a percentage greater than zero is configured.
 */
package app

import (
	"fmt"
	"net/http"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// PolicyProvider exposes the platform's split settings. Implementations must
// return current values on every call; the calculator never caches them.
type PolicyProvider interface {
	SystemPercent() float64
	SystemFixedFee() float64
}

// SplitCalculator computes how a subscription payment is divided between the
// platform and a seller wallet. It is stateless and safe for concurrent use.
type SplitCalculator struct {
	policy PolicyProvider
}

// NewSplitCalculator creates a split calculator bound to a policy provider.
func NewSplitCalculator(policy PolicyProvider) SplitCalculator {
	return SplitCalculator{policy: policy}
}

// CalculateSplit computes the seller's share of a payment of totalValue
// destined to sellerWalletID. The wallet check runs before the value check.
func (c SplitCalculator) CalculateSplit(totalValue float64, sellerWalletID string) domain.SplitResult {
	if sellerWalletID == "" {
		return splitFailure(http.StatusBadRequest,
			"seller has no configured wallet; split is mandatory to create subscriptions")
	}

	if totalValue <= 0 {
		return splitFailure(http.StatusBadRequest,
			"subscription value must be greater than zero")
	}

	systemPercent := c.policy.SystemPercent()
	systemFixedFee := c.policy.SystemFixedFee()

	if systemPercent > 0 {
		if systemPercent >= 100 {
			return splitFailure(http.StatusBadRequest,
				"system percent must be less than 100%")
		}
		sellerPercent := 100 - systemPercent
		return domain.SplitResult{
			Success:     true,
			Allocations: []domain.SplitAllocation{domain.PercentAllocation(sellerWalletID, sellerPercent)},
		}
	}

	// The boundary is strict: a payment exactly equal to the fee would leave
	// the seller with zero.
	if totalValue <= systemFixedFee {
		return splitFailure(http.StatusBadRequest,
			fmt.Sprintf("subscription value (R$ %.2f) must be greater than the system fee (R$ %.2f)",
				totalValue, systemFixedFee))
	}

	sellerFixed := totalValue - systemFixedFee
	return domain.SplitResult{
		Success:     true,
		Allocations: []domain.SplitAllocation{domain.FixedAllocation(sellerWalletID, sellerFixed)},
	}
}

// ValidateSellerForSplit checks that a seller is able to receive split
// payments. It is a pure guard for callers that already hold a seller record;
// it does not compute amounts.
func (c SplitCalculator) ValidateSellerForSplit(seller *domain.Seller) *domain.RequestError {
	if seller == nil {
		return &domain.RequestError{
			Message:    "seller not found",
			StatusCode: http.StatusNotFound,
		}
	}
	if !seller.HasWallet() {
		return &domain.RequestError{
			Message:    "seller has no configured wallet; split is mandatory to create subscriptions",
			StatusCode: http.StatusBadRequest,
		}
	}
	return nil
}

func splitFailure(status int, message string) domain.SplitResult {
	return domain.SplitResult{
		Success: false,
		Err:     &domain.RequestError{Message: message, StatusCode: status},
	}
}
