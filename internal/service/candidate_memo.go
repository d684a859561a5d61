package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Evaluation sources reported to metrics.
const (
	evaluationComputed = "computed"
	evaluationMemo     = "memo"
	evaluationCache    = "cache"
)

type candidateKey struct {
	version string
	query   CandidateQuery
	strict  bool
}

// candidateCachePattern matches every shared entry written by the memo.
const candidateCachePattern = "eligibility:*"

func (k candidateKey) cacheKey() string {
	return fmt.Sprintf("eligibility:v1:%s:%d:%d:%d:%t", k.version, k.query.SubjectID, k.query.BlockID, k.query.PeriodID, k.strict)
}

// CandidateMemo memoizes FilterCandidates per snapshot version. A changed
// snapshot has a new version, so results never outlive the data they came from.
// Redis backing is optional and shared across instances.
type CandidateMemo struct {
	mu       sync.Mutex
	maxItems int
	items    map[candidateKey]Candidates
	cache    *CacheService
	cacheTTL time.Duration
	metrics  *MetricsService
}

// NewCandidateMemo builds a memo holding at most maxItems local entries.
func NewCandidateMemo(maxItems int, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService) *CandidateMemo {
	if maxItems <= 0 {
		maxItems = 512
	}
	return &CandidateMemo{
		maxItems: maxItems,
		items:    make(map[candidateKey]Candidates),
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// Resolve returns the candidates for the query, computing them at most once per snapshot version.
func (m *CandidateMemo) Resolve(ctx context.Context, q CandidateQuery, snap *Snapshot, policy AvailabilityPolicy) Candidates {
	if m == nil || snap == nil {
		return FilterCandidates(q, snap, policy)
	}
	key := candidateKey{version: snap.Version(), query: q, strict: policy.Strict}

	if found, ok := m.lookup(key); ok {
		m.record(evaluationMemo, found)
		return found
	}

	var cached Candidates
	if hit, _ := m.cache.Get(ctx, key.cacheKey(), &cached); hit {
		m.store(key, cached)
		m.record(evaluationCache, cached)
		return cloneCandidates(cached)
	}

	result := FilterCandidates(q, snap, policy)
	m.store(key, result)
	_ = m.cache.Set(ctx, key.cacheKey(), result, m.cacheTTL)
	m.record(evaluationComputed, result)
	return cloneCandidates(result)
}

// Flush empties the local memo and removes the shared entries.
func (m *CandidateMemo) Flush(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	m.items = make(map[candidateKey]Candidates, m.maxItems)
	m.mu.Unlock()
	return m.cache.Invalidate(ctx, candidateCachePattern)
}

// Len reports the number of locally memoized entries.
func (m *CandidateMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *CandidateMemo) lookup(key candidateKey) (Candidates, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	found, ok := m.items[key]
	if !ok {
		return Candidates{}, false
	}
	return cloneCandidates(found), true
}

func (m *CandidateMemo) store(key candidateKey, value Candidates) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) >= m.maxItems {
		m.items = make(map[candidateKey]Candidates, m.maxItems)
	}
	m.items[key] = cloneCandidates(value)
}

func (m *CandidateMemo) record(source string, c Candidates) {
	m.metrics.RecordEvaluation(source, len(c.Teachers), len(c.Rooms))
}

func cloneCandidates(c Candidates) Candidates {
	out := emptyCandidates()
	out.Teachers = append(out.Teachers, c.Teachers...)
	out.Rooms = append(out.Rooms, c.Rooms...)
	return out
}
