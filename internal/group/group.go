// Package group partitions extracted records by field value and exports the
// partitions as a directory tree that diff tools can compare.
package group

import (
	"github.com/bimmerbailey/logsmart/internal/extract"
)

// KeyAll is the reserved group key that is always populated.
const KeyAll = "ALL"

// Buckets under KeyAll.
const (
	BucketClean    = "clean"
	BucketOriginal = "original"
	BucketNoMatch  = "nomatch"
)

// DefaultKeys is used when the caller requests no keys.
var DefaultKeys = []string{"tag", "threadname", "threadid", "level", "processname", "processid", KeyAll}

// Partition maps group key → field value → output lines, for one input.
// It is built by a single pass and must not be shared between goroutines
// while it is being built.
type Partition struct {
	name     string
	keys     []string
	buckets  map[string]*valueBuckets
	redacted int
}

type valueBuckets struct {
	order []string
	lines map[string][]string
}

func newValueBuckets() *valueBuckets {
	return &valueBuckets{lines: make(map[string][]string)}
}

func (b *valueBuckets) add(value, line string) {
	if _, ok := b.lines[value]; !ok {
		b.order = append(b.order, value)
	}
	b.lines[value] = append(b.lines[value], line)
}

// NormalizeKeys returns keys without duplicates, with KeyAll appended if it
// was not requested. An empty list selects DefaultKeys.
func NormalizeKeys(keys []string) []string {
	if len(keys) == 0 {
		keys = DefaultKeys
	}
	seen := make(map[string]bool, len(keys)+1)
	out := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	if !seen[KeyAll] {
		out = append(out, KeyAll)
	}
	return out
}

// Build partitions the records of one input. Keys that the format does not
// provide are skipped without error.
func Build(res *extract.Result, keys []string) *Partition {
	p := &Partition{
		name:     res.Name,
		keys:     NormalizeKeys(keys),
		buckets:  make(map[string]*valueBuckets),
		redacted: res.Redactions(),
	}

	all := newValueBuckets()
	for _, b := range []string{BucketClean, BucketOriginal, BucketNoMatch} {
		all.order = append(all.order, b)
		all.lines[b] = nil
	}
	p.buckets[KeyAll] = all

	for _, rec := range res.Records {
		switch rec.Kind {
		case extract.Matched:
			all.add(BucketClean, rec.Output)
			for _, key := range p.keys {
				if key == KeyAll {
					continue
				}
				value, ok := rec.Value(key)
				if !ok {
					continue
				}
				b, ok := p.buckets[key]
				if !ok {
					b = newValueBuckets()
					p.buckets[key] = b
				}
				b.add(value, rec.Output)
			}
		case extract.Unmatched:
			all.add(BucketNoMatch, rec.Raw)
		}
		all.add(BucketOriginal, rec.Raw)
	}

	return p
}

// Name returns the name of the input the partition was built from.
func (p *Partition) Name() string { return p.name }

// Keys returns the requested keys that are present, in request order.
func (p *Partition) Keys() []string {
	keys := make([]string, 0, len(p.keys))
	for _, k := range p.keys {
		if _, ok := p.buckets[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Values returns the values observed under key, in first-seen order.
func (p *Partition) Values(key string) []string {
	b, ok := p.buckets[key]
	if !ok {
		return nil
	}
	return append([]string(nil), b.order...)
}

// Lines returns the lines stored under key and value, in input order.
func (p *Partition) Lines(key, value string) []string {
	b, ok := p.buckets[key]
	if !ok {
		return nil
	}
	return append([]string(nil), b.lines[value]...)
}
