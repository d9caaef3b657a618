package domain

import (
	"fmt"
	"strings"
)

// ScopedID renders a chain-scoped entity ID: "<address>-<chainId>".
// Every per-chain entity kind uses this form as its primary key.
func ScopedID(address string, chainID uint64) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(address), chainID)
}

// BundleID is the per-chain key of the native-asset price bundle.
func BundleID(chainID uint64) string {
	return fmt.Sprintf("%d", chainID)
}

// TickID renders the key of a tick record: "<poolAddress>#<tickIdx>-<chainId>".
func TickID(poolAddress string, tickIdx int32, chainID uint64) string {
	return fmt.Sprintf("%s#%d-%d", strings.ToLower(poolAddress), tickIdx, chainID)
}

// EventRecordID renders the key of an immutable event record:
// "<transactionId>-<logIndex>".
func EventRecordID(transactionID string, logIndex uint32) string {
	return fmt.Sprintf("%s-%d", transactionID, logIndex)
}

// ProtocolDayID renders the key of a protocol-wide daily record:
// "<dayIndex>-<chainId>".
func ProtocolDayID(dayIndex int64, chainID uint64) string {
	return fmt.Sprintf("%d-%d", dayIndex, chainID)
}

// BucketID renders the key of a time-bucketed record:
// "<address>-<bucketIndex>-<chainId>".
func BucketID(address string, bucketIndex int64, chainID uint64) string {
	return fmt.Sprintf("%s-%d-%d", strings.ToLower(address), bucketIndex, chainID)
}
