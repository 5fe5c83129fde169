package analysis

import (
	"math"
	"sort"
)

// Bucket is one distinct value and how many records carry it
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Aggregation is the grouped view of one field over a set of records
type Aggregation struct {
	Field   string   `json:"field"`
	Buckets []Bucket `json:"buckets"`
	// Invalid counts records whose value was missing or blank.
	Invalid int `json:"invalid"`
	// Total is the sum of all bucket counts.
	Total int `json:"total"`
}

// Empty reports whether no record had a value
func (a Aggregation) Empty() bool {
	return a.Total == 0
}

// Percent returns the share of b in the total, rounded to one decimal
func (a Aggregation) Percent(b Bucket) float64 {
	return Percentage(b.Count, a.Total)
}

// InvalidPercent returns the share of missing values among all records
func (a Aggregation) InvalidPercent() float64 {
	return Percentage(a.Invalid, a.Invalid+a.Total)
}

// Labels returns the bucket labels in order
func (a Aggregation) Labels() []string {
	labels := make([]string, len(a.Buckets))
	for i, b := range a.Buckets {
		labels[i] = b.Label
	}
	return labels
}

// GroupByField counts records per normalized value of field. When uniqueBy is
// set the records are first deduplicated by that identifier field. Buckets are
// ordered by descending count; equal counts keep first-seen order.
func GroupByField(records []Record, field string, res Resolver, uniqueBy string) Aggregation {
	if uniqueBy != "" {
		records = Dedupe(records, res, uniqueBy)
	}
	agg := tally(records, field, res, Normalize, "")
	sortBuckets(agg.Buckets)
	return agg
}

// CountRaw counts trimmed values of field without normalization, in
// first-seen order. Blank cells are counted as invalid.
func CountRaw(records []Record, field string, res Resolver) Aggregation {
	return tally(records, field, res, nil, "")
}

// CountWithDefault counts trimmed values of field, filing blank cells under
// fallback, ordered by descending count
func CountWithDefault(records []Record, field string, res Resolver, fallback string) Aggregation {
	agg := tally(records, field, res, nil, fallback)
	sortBuckets(agg.Buckets)
	return agg
}

func tally(records []Record, field string, res Resolver, norm func(string) string, fallback string) Aggregation {
	agg := Aggregation{Field: field}
	index := make(map[string]int)
	for _, rec := range records {
		v := rec.Value(res, field)
		if norm != nil {
			v = norm(v)
		}
		if v == "" {
			if fallback == "" {
				agg.Invalid++
				continue
			}
			v = fallback
		}
		i, ok := index[v]
		if !ok {
			i = len(agg.Buckets)
			index[v] = i
			agg.Buckets = append(agg.Buckets, Bucket{Label: v})
		}
		agg.Buckets[i].Count++
		agg.Total++
	}
	return agg
}

func sortBuckets(b []Bucket) {
	sort.SliceStable(b, func(i, j int) bool {
		return b[i].Count > b[j].Count
	})
}

// Percentage returns part/whole*100 rounded to one decimal, 0 when whole is 0
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round1(float64(part) / float64(whole) * 100)
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
