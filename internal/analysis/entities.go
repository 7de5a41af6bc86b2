package analysis

import (
	"context"
	"regexp"
	"strings"
)

// EntityTypes is the fixed set of entity buckets every record carries, in
// output order.
var EntityTypes = []string{"PERSON", "ORG", "DATE", "LOCATION", "PERCENT"}

// entityCaps bounds how many entities of each type a record keeps.
var entityCaps = map[string]int{
	"PERSON":   5,
	"ORG":      5,
	"DATE":     3,
	"LOCATION": 5,
	"PERCENT":  5,
}

// EntitySet maps entity type to the deduplicated values found, in first-seen
// order.
type EntitySet map[string][]string

// NewEntitySet returns a set with every bucket present and empty.
func NewEntitySet() EntitySet {
	set := make(EntitySet, len(EntityTypes))
	for _, t := range EntityTypes {
		set[t] = []string{}
	}
	return set
}

// add appends value to the typed bucket unless it is already present
// (case-insensitively) or the bucket is full. Unknown types are dropped.
func (s EntitySet) add(entityType, value string) {
	entityType = strings.ToUpper(entityType)
	bucket, ok := s[entityType]
	if !ok {
		return
	}
	if limit, ok := entityCaps[entityType]; ok && len(bucket) >= limit {
		return
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	for _, existing := range bucket {
		if strings.EqualFold(existing, value) {
			return
		}
	}
	s[entityType] = append(bucket, value)
}

// Total returns the number of entities across all buckets.
func (s EntitySet) Total() int {
	n := 0
	for _, bucket := range s {
		n += len(bucket)
	}
	return n
}

var (
	honorificRe = regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof)\.\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?`)
	namePairRe  = regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`)
	acronymRe   = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	orgSuffixRe = regexp.MustCompile(`\b[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*\s+(?:Inc|Ltd|Corp|LLC|University|Institute|Laboratories|Company)\b`)
	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	monthDateRe = regexp.MustCompile(`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}(?:,\s*\d{4})?\b`)
	numDateRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	percentRe   = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
)

const entityRuleConfidence = 0.5

// entitiesRule is the pattern-based fallback. It cannot see context, so it
// nominates capitalized sequences as names, acronyms and suffixed names as
// organizations, and leaves LOCATION to the capability-backed recognizer.
func entitiesRule(_ context.Context, in Input) (EntitySet, float64, error) {
	set := NewEntitySet()

	for _, m := range honorificRe.FindAllString(in.Text, -1) {
		set.add("PERSON", m)
	}
	for _, m := range namePairRe.FindAllString(in.Text, -1) {
		set.add("PERSON", m)
	}

	for _, m := range orgSuffixRe.FindAllString(in.Text, -1) {
		set.add("ORG", m)
	}
	for _, m := range acronymRe.FindAllString(in.Text, -1) {
		set.add("ORG", m)
	}

	for _, m := range monthDateRe.FindAllString(in.Text, -1) {
		set.add("DATE", m)
	}
	for _, m := range numDateRe.FindAllString(in.Text, -1) {
		set.add("DATE", m)
	}
	for _, m := range yearRe.FindAllString(in.Text, -1) {
		set.add("DATE", m)
	}

	for _, m := range percentRe.FindAllString(in.Text, -1) {
		set.add("PERCENT", m)
	}

	return set, entityRuleConfidence, nil
}

// entitiesML delegates to the registered recognizer and folds its spans into
// the fixed bucket shape.
func (o *Orchestrator) entitiesML(ctx context.Context, in Input) (EntitySet, float64, error) {
	spans, conf, err := o.caps.RecognizeEntities(ctx, in.Text)
	if err != nil {
		return nil, 0, err
	}

	set := NewEntitySet()
	for _, span := range spans {
		set.add(span.Type, span.Text)
	}
	return set, conf, nil
}

func (o *Orchestrator) entities(ctx context.Context, in Input) Outcome[EntitySet] {
	return runChain(ctx, in, "entities", []step[EntitySet]{
		{method: MethodML, run: o.entitiesML},
		{method: MethodRuleBased, run: entitiesRule},
	}, o.logger)
}
