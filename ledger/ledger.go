// Package ledger is the prediction verification store: an append-only,
// content-addressed map of predictions keyed by a deterministic hash.
// The "blockchain" framing is cosmetic; there is no chain, only the
// digest and an explorer-style URL.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"sentient110/models"
)

// Network is the label reported with every verification.
const Network = "Story Protocol (Sepolia)"

// DefaultHistoryLimit bounds history queries when no limit is given.
const DefaultHistoryLimit = 10

// Hash computes the transaction hash for a prediction. It is a pure
// function of its four inputs: recomputing it over a stored record
// reproduces the record's key.
func Hash(ticker, signal string, confidence int, timestamp string) string {
	data := fmt.Sprintf("%s|%s|%d|%s", ticker, signal, confidence, timestamp)
	sum := sha256.Sum256([]byte(data))
	return "0x" + hex.EncodeToString(sum[:])
}

// VerificationURL returns the block-explorer link for a hash.
func VerificationURL(txHash string) string {
	return "https://sepolia.etherscan.io/tx/" + txHash
}

// Store is the ledger contract. Record appends, Lookup never fails on
// unknown hashes (it reports absence), History returns newest first.
type Store interface {
	Record(ctx context.Context, rec models.PredictionRecord) error
	Lookup(ctx context.Context, txHash string) (*models.PredictionRecord, bool)
	History(ctx context.Context, ticker string, limit int) []models.PredictionRecord
}

// MemoryStore is the in-process ledger used when Postgres is not
// configured. Records are never updated or deleted.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.PredictionRecord
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.PredictionRecord)}
}

// Record stores a prediction under its hash.
func (s *MemoryStore) Record(_ context.Context, rec models.PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.TxHash] = rec
	return nil
}

// Lookup returns the stored record for a hash, or false when the hash
// was never issued.
func (s *MemoryStore) Lookup(_ context.Context, txHash string) (*models.PredictionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[txHash]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// History returns up to limit records, newest first, optionally
// filtered by ticker.
func (s *MemoryStore) History(_ context.Context, ticker string, limit int) []models.PredictionRecord {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	s.mu.RLock()
	out := make([]models.PredictionRecord, 0, len(s.records))
	for _, rec := range s.records {
		if ticker != "" && rec.Ticker != ticker {
			continue
		}
		out = append(out, rec)
	}
	s.mu.RUnlock()

	// Timestamps are RFC3339 in UTC, so they sort lexicographically.
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
