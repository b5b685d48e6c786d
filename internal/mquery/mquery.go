// Package mquery translates caller-supplied ledger queries into MongoDB
// filter documents. It knows the fixed transaction schema, routes everything
// else into the nested meta document, and builds the account-path predicates
// that make a prefix query match an account and all of its descendants.
package mquery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// knownFields is the closed set of transaction schema field names. Keys
// outside this set are routed under "meta.".
var knownFields = map[string]struct{}{
	"_id":               {},
	"credit":            {},
	"debit":             {},
	"meta":              {},
	"datetime":          {},
	"account_path":      {},
	"accounts":          {},
	"book":              {},
	"memo":              {},
	"_journal":          {},
	"timestamp":         {},
	"voided":            {},
	"void_reason":       {},
	"approved":          {},
	"_original_journal": {},
}

// referenceFields are schema fields holding document references; string
// values filtered on them are coerced to ObjectIDs.
var referenceFields = map[string]struct{}{
	"_id":               {},
	"_journal":          {},
	"_original_journal": {},
}

// blockedKeys are never copied from caller input into a filter.
var blockedKeys = map[string]struct{}{
	"__proto__":   {},
	"constructor": {},
	"prototype":   {},
}

// Input is a logical ledger query before translation.
type Input struct {
	Book           string
	Account        any            // string or []string, empty for all accounts
	StartDate      any            // see ParseDate
	EndDate        any
	Filter         map[string]any // extra conditions, known fields or meta
	MaxAccountPath int
}

// Build translates an Input into a MongoDB filter document. The book name is
// always injected. Account depth is not validated here: a query is just a
// filter, an over-deep path simply matches nothing.
func Build(in Input) bson.M {
	filter := bson.M{"book": in.Book}

	if frag := AccountPredicate(in.Account, in.MaxAccountPath); frag != nil {
		for k, v := range frag {
			filter[k] = v
		}
	}

	start, startOK := ParseDate(in.StartDate)
	end, endOK := ParseDate(in.EndDate)

	for key, value := range in.Filter {
		if _, blocked := blockedKeys[key]; blocked {
			continue
		}
		switch key {
		case "start_date":
			if t, ok := ParseDate(value); ok {
				start, startOK = t, true
			}
		case "end_date":
			if t, ok := ParseDate(value); ok {
				end, endOK = t, true
			}
		case "account", "book":
			// handled above
		default:
			if _, known := knownFields[key]; known {
				filter[key] = coerceReference(key, value)
			} else {
				filter["meta."+key] = value
			}
		}
	}

	if startOK || endOK {
		dt := bson.M{}
		if startOK {
			dt["$gte"] = start
		}
		if endOK {
			dt["$lte"] = end
		}
		filter["datetime"] = dt
	}

	return filter
}

// AccountPredicate builds the filter fragment for one account selector.
// A path at the maximum depth matches the full account string exactly; a
// shorter path matches per-segment so descendants are included. A slice of
// accounts produces an $or of per-account fragments; a single-element slice
// degrades to the scalar case. Returns nil for an empty selector.
func AccountPredicate(account any, maxPath int) bson.M {
	switch a := account.(type) {
	case string:
		if a == "" {
			return nil
		}
		return accountFragment(a, maxPath)
	case []string:
		switch len(a) {
		case 0:
			return nil
		case 1:
			return accountFragment(a[0], maxPath)
		}
		or := make(bson.A, 0, len(a))
		for _, acct := range a {
			or = append(or, accountFragment(acct, maxPath))
		}
		return bson.M{"$or": or}
	default:
		return nil
	}
}

func accountFragment(account string, maxPath int) bson.M {
	parts := strings.Split(account, ":")
	if len(parts) == maxPath {
		return bson.M{"accounts": account}
	}
	frag := bson.M{}
	for i, part := range parts {
		frag["account_path."+strconv.Itoa(i)] = part
	}
	return frag
}

// ParseDate normalizes the date inputs a query accepts: a time.Time, a
// numeric Unix-millisecond epoch, a numeric string, or a parseable date
// string. The second return is false when the input is absent or does not
// parse; downstream treats that as "no bound".
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return d, !d.IsZero()
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return *d, !d.IsZero()
	case int:
		return time.UnixMilli(int64(d)), true
	case int64:
		return time.UnixMilli(d), true
	case float64:
		return time.UnixMilli(int64(d)), true
	case string:
		if d == "" {
			return time.Time{}, false
		}
		if ms, err := strconv.ParseFloat(d, 64); err == nil {
			return time.UnixMilli(int64(ms)), true
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// AccountString joins a selector into a single canonical string for snapshot
// keys and snapshot documents.
func AccountString(account any) string {
	switch a := account.(type) {
	case string:
		return a
	case []string:
		return strings.Join(a, ",")
	default:
		return ""
	}
}

// Flatten canonicalizes a meta filter into sorted "dotted.key:value" pairs.
// Nested documents and arrays are walked to scalar leaves, so two filters
// that are deeply equal flatten identically regardless of key order or of
// query operators wrapping the values.
func Flatten(meta map[string]any) []string {
	var pairs []string
	for key, value := range meta {
		if _, blocked := blockedKeys[key]; blocked {
			continue
		}
		flattenInto(&pairs, key, value)
	}
	sort.Strings(pairs)
	return pairs
}

func flattenInto(pairs *[]string, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for k, nested := range v {
			flattenInto(pairs, prefix+"."+k, nested)
		}
	case bson.M:
		for k, nested := range v {
			flattenInto(pairs, prefix+"."+k, nested)
		}
	case []any:
		for i, nested := range v {
			flattenInto(pairs, prefix+"."+strconv.Itoa(i), nested)
		}
	case bson.A:
		for i, nested := range v {
			flattenInto(pairs, prefix+"."+strconv.Itoa(i), nested)
		}
	default:
		*pairs = append(*pairs, prefix+":"+fmt.Sprintf("%v", v))
	}
}

func coerceReference(key string, value any) any {
	if _, ref := referenceFields[key]; !ref {
		return value
	}
	if s, ok := value.(string); ok {
		if id, err := bson.ObjectIDFromHex(s); err == nil {
			return id
		}
	}
	return value
}
