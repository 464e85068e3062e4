package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/props"
)

// TimeLayout is the ISO-8601 layout used for every stored timestamp.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Index is the JSON document downstream lookup tools read.
type Index struct {
	Players    []string        `json:"players"`
	Pairs      []IndexPair     `json:"pairs"`
	Thresholds IndexThresholds `json:"thresholds"`
	Timestamp  string          `json:"timestamp"`
}

type IndexPair struct {
	P1 string `json:"p1"`
	P2 string `json:"p2"`
	V  int    `json:"v"`
}

type IndexThresholds struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Freshness lets consumers detect a changed lookup without reading it.
type Freshness struct {
	Checksum  int64
	RowCount  int
	Timestamp string
}

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

// BuildIndex keeps pairs in table order and lists each name once, sorted.
func BuildIndex(pairs []chemistry.Pair, th chemistry.Thresholds, now time.Time) Index {
	idx := Index{
		Players:    []string{},
		Pairs:      make([]IndexPair, 0, len(pairs)),
		Thresholds: IndexThresholds{Positive: th.PositiveMin, Negative: th.NegativeMax},
		Timestamp:  FormatTime(now),
	}
	seen := map[string]struct{}{}
	for _, p := range pairs {
		if p.Player1 == "" || p.Player2 == "" {
			continue
		}
		for _, n := range []string{p.Player1, p.Player2} {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				idx.Players = append(idx.Players, n)
			}
		}
		idx.Pairs = append(idx.Pairs, IndexPair{P1: p.Player1, P2: p.Player2, V: p.Chemistry})
	}
	sort.Strings(idx.Players)
	return idx
}

func (idx Index) JSON() ([]byte, error) {
	return json.Marshal(idx)
}

// Fingerprint sums the character codes of Player1+Player2 plus the value
// over all pairs.
func Fingerprint(pairs []chemistry.Pair, now time.Time) Freshness {
	var sum int64
	for _, p := range pairs {
		for _, r := range p.Player1 + p.Player2 {
			sum += int64(r)
		}
		sum += int64(p.Chemistry)
	}
	return Freshness{Checksum: sum, RowCount: len(pairs), Timestamp: FormatTime(now)}
}

// Publish stores the JSON index and the freshness triplet.
func Publish(ctx context.Context, store props.Store, pairs []chemistry.Pair, th chemistry.Thresholds, now time.Time) (Index, Freshness, error) {
	idx := BuildIndex(pairs, th, now)
	fresh := Fingerprint(pairs, now)

	b, err := idx.JSON()
	if err != nil {
		return idx, fresh, fmt.Errorf("encode chemistry index: %w", err)
	}
	values := []struct{ key, value string }{
		{props.KeyChemistryData, string(b)},
		{props.KeyChemistryDataTime, idx.Timestamp},
		{props.KeyLookupTimestamp, fresh.Timestamp},
		{props.KeyLookupRowCount, strconv.Itoa(fresh.RowCount)},
		{props.KeyLookupChecksum, strconv.FormatInt(fresh.Checksum, 10)},
	}
	for _, kv := range values {
		if err := store.Set(ctx, kv.key, kv.value); err != nil {
			return idx, fresh, err
		}
	}
	return idx, fresh, nil
}

// LoadFreshness reads the stored freshness triplet. ok is false when no
// index has been published yet.
func LoadFreshness(ctx context.Context, store props.Store) (Freshness, bool, error) {
	ts, ok, err := store.Get(ctx, props.KeyLookupTimestamp)
	if err != nil || !ok {
		return Freshness{}, false, err
	}
	f := Freshness{Timestamp: ts}
	if v, ok, err := store.Get(ctx, props.KeyLookupRowCount); err != nil {
		return f, false, err
	} else if ok {
		f.RowCount, _ = strconv.Atoi(v)
	}
	if v, ok, err := store.Get(ctx, props.KeyLookupChecksum); err != nil {
		return f, false, err
	} else if ok {
		f.Checksum, _ = strconv.ParseInt(v, 10, 64)
	}
	return f, true, nil
}
