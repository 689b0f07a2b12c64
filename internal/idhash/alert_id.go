// Package idhash computes deterministic, compact identifiers for ledger
// records. The same logical record always hashes to the same ID, which is
// what makes cross-process deduplication and log correlation possible.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// ComputeAlertID computes a deterministic alert ID.
// Formula: base58(SHA256(symbol|alert_type|timestamp_ms)[:16])
// Used for log correlation between the live monitor and the evaluator; the
// stores themselves deduplicate on the natural (symbol, alert_type, timestamp) key.
func ComputeAlertID(symbol, alertType string, ts time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", symbol, alertType, ts.UTC().UnixMilli())
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}

// ComputeTradeID computes a deterministic trade ID.
// Formula: base58(SHA256(symbol|strategy_name|entry_timestamp_ms)[:16])
// A signal produces at most one trade, so the entry timestamp is sufficient
// to make the ID unique per (symbol, strategy).
func ComputeTradeID(symbol, strategyName string, entry time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", symbol, strategyName, entry.UTC().UnixMilli())
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:16])
}
