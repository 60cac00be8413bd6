// Package oracle asks an external asset registry who currently holds an asset.
// The registry only consults it during the two-phase raffle creation.
package oracle

import "context"

// OwnerReply is the oracle's answer for one asset.
type OwnerReply struct {
	AssetID string `json:"asset_id"`
	Owner   string `json:"owner"`
	// Raw is the untouched response body, kept for the pending-creation audit
	// trail.
	Raw []byte `json:"-"`
}

// OwnershipOracle resolves the current holder of an asset. Implementations
// must treat "asset unknown" as an error, not an empty owner.
type OwnershipOracle interface {
	QueryOwner(ctx context.Context, assetID string) (*OwnerReply, error)
}
