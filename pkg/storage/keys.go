package storage

import "fmt"

// Pebble key schema. Prefix-based so per-good history is one range scan, with
// zero-padded sequence numbers for lexicographic ordering.
const (
	prefixTrade = "trade:" // trade:{good}:{txnId}
	prefixQuote = "quote:" // quote:{good}:{step}
)

// tradeKey returns the key for one trade record.
// Format: "trade:{good}:{txnId}" with a 20-digit zero-padded id.
func tradeKey(good string, txnID int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", prefixTrade, good, txnID))
}

// tradePrefix returns the prefix covering all trades of a good.
func tradePrefix(good string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixTrade, good))
}

// quoteKey returns the key for one per-step quote snapshot.
// Format: "quote:{good}:{step}" with a 20-digit zero-padded step.
func quoteKey(good string, step int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", prefixQuote, good, step))
}

// quotePrefix returns the prefix covering all quote snapshots of a good.
func quotePrefix(good string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixQuote, good))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan by
// incrementing the last byte of the prefix.
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
