// Package escrow holds the pure arithmetic that turns an attached payment into
// the amounts forwarded to the beneficiary and refunded to the payer. All
// amounts are unsigned integer units; every subtraction is guarded, never
// wrapped.
package escrow

import "errors"

// ErrInsufficientPayment means the attached payment does not cover the ticket
// price; no valid split exists and no funds may move forward.
var ErrInsufficientPayment = errors.New("escrow: payment below ticket price")

// ErrStorageCostExceedsPrice rejects a configuration where the per-entry
// overhead would eat more than the ticket price itself.
var ErrStorageCostExceedsPrice = errors.New("escrow: storage cost exceeds ticket price")

// Split divides an attached payment against a ticket price.
//
//	forward = price - storageCost   (to the beneficiary)
//	refund  = paid - price          (back to the payer)
//
// storageCost is the fixed bookkeeping overhead retained per entry, so
// forward + refund + storageCost == paid holds whenever paid >= price.
func Split(paid, price, storageCost uint64) (forward, refund uint64, err error) {
	if storageCost > price {
		return 0, 0, ErrStorageCostExceedsPrice
	}
	if paid < price {
		return 0, 0, ErrInsufficientPayment
	}
	return price - storageCost, paid - price, nil
}

// DuplicateRefund computes the refund for a rejected duplicate entry: the full
// attached payment minus a small fixed processing allowance that is retained,
// not forwarded. The allowance is clamped so the refund never underflows.
func DuplicateRefund(paid, allowance uint64) (refund, retained uint64) {
	if allowance > paid {
		return 0, paid
	}
	return paid - allowance, allowance
}
