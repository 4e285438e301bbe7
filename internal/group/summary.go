package group

import "sort"

// ValueCount is how many output lines share one value of a key.
type ValueCount struct {
	Value   string  `json:"value"`
	File    string  `json:"file"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// KeySummary describes the distribution of one key in a partition.
type KeySummary struct {
	Key    string       `json:"key"`
	Total  int          `json:"total"`
	Values []ValueCount `json:"values"`
}

// Summary is the per-key distribution of one partition.
type Summary struct {
	Name      string       `json:"name"`
	Dir       string       `json:"dir,omitempty"`
	Clean     int          `json:"clean"`
	Original  int          `json:"original"`
	NoMatch   int          `json:"nomatch"`
	Redacted  int          `json:"redacted"`
	Keys      []KeySummary `json:"keys"`
	Collision []string     `json:"collisions,omitempty"`
}

// Summarize counts the lines of every key and value. Values are sorted by
// count, most frequent first; ties keep first-seen order. topN <= 0 keeps
// every value.
func (p *Partition) Summarize(topN int) Summary {
	all := p.buckets[KeyAll]
	s := Summary{
		Name:     p.name,
		Clean:    len(all.lines[BucketClean]),
		Original: len(all.lines[BucketOriginal]),
		NoMatch:  len(all.lines[BucketNoMatch]),
		Redacted: p.redacted,
	}

	for _, key := range p.Keys() {
		if key == KeyAll {
			continue
		}
		b := p.buckets[key]
		ks := KeySummary{Key: key}
		files := make(map[string]string)
		for _, value := range b.order {
			n := len(b.lines[value])
			ks.Total += n
			name := FileName(key, value)
			if prev, ok := files[name]; ok {
				s.Collision = append(s.Collision, key+"/"+name+": "+prev+" | "+value)
			} else {
				files[name] = value
			}
			ks.Values = append(ks.Values, ValueCount{Value: value, File: name, Count: n})
		}
		for i := range ks.Values {
			if ks.Total > 0 {
				ks.Values[i].Percent = float64(ks.Values[i].Count) / float64(ks.Total) * 100
			}
		}
		sort.SliceStable(ks.Values, func(i, j int) bool {
			return ks.Values[i].Count > ks.Values[j].Count
		})
		if topN > 0 && len(ks.Values) > topN {
			ks.Values = ks.Values[:topN]
		}
		s.Keys = append(s.Keys, ks)
	}

	return s
}
