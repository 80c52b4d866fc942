package company

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// FilterSchemaVersion tags serialized filters so sessions created
// before a filter-shape change still decode after a deploy.
const FilterSchemaVersion = 1

// SearchFilter is the buyer's search criteria. It lives for a single
// search request and otherwise only as serialized metadata on a
// payment session, so it must round-trip through EncodeFilter and
// DecodeFilter without changing meaning.
type SearchFilter struct {
	Keyword      string   `json:"keyword,omitempty"`
	Industry     []string `json:"industry"`
	Region       []string `json:"region"`
	SNS          []string `json:"sns"`
	MinFollowers int      `json:"minFollowers,omitempty"`
}

type versionedFilter struct {
	V int `json:"v"`
	SearchFilter
}

// EncodeFilter renders the filter as a schema-tagged JSON string.
// Field order is fixed by the struct, so equal filters always encode
// to the same bytes.
func EncodeFilter(f *SearchFilter) (string, error) {
	b, err := json.Marshal(versionedFilter{V: FilterSchemaVersion, SearchFilter: *f})
	if err != nil {
		return "", errors.Wrap(err, "unable to encode search filter")
	}
	return string(b), nil
}

// DecodeFilter parses a serialized filter. Payloads without a version
// tag are accepted as version 1: sessions created before the tag was
// introduced must keep downloading.
func DecodeFilter(s string) (*SearchFilter, error) {
	var vf versionedFilter
	if err := json.Unmarshal([]byte(s), &vf); err != nil {
		return nil, errors.Wrap(err, "unable to decode search filter")
	}
	if vf.V > FilterSchemaVersion {
		return nil, fmt.Errorf("unsupported filter schema version %d", vf.V)
	}
	f := vf.SearchFilter
	return &f, nil
}

// keywordColumns are the text columns covered by the free-word
// search. The broadened variant, which includes keyword1-5, is the
// one in force.
var keywordColumns = []string{
	"company_name",
	"description",
	"keyword1",
	"keyword2",
	"keyword3",
	"keyword4",
	"keyword5",
}

// Threshold is the effective follower floor applied to every selected
// platform: MinFollowers when set, otherwise 1 so that a linked but
// dormant account (zero followers) never matches.
func (f *SearchFilter) Threshold() int {
	if f.MinFollowers > 0 {
		return f.MinFollowers
	}
	return 1
}

// Compile translates the filter into WHERE-clause fragments and their
// placeholder arguments, numbered from $1. Clause order is fixed:
// keyword, industry, region, then one existence+threshold pair per
// selected platform in canonical platform order. An empty dimension
// contributes no clause, so an empty filter matches everything.
func (f *SearchFilter) Compile() ([]string, []interface{}) {
	var clauses []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Keyword != "" {
		ph := arg(f.Keyword)
		parts := make([]string, 0, len(keywordColumns))
		for _, col := range keywordColumns {
			parts = append(parts, fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", col, ph))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	if len(f.Industry) > 0 {
		clauses = append(clauses, fmt.Sprintf("industry = ANY(%s)", arg(pq.Array(f.Industry))))
	}

	if len(f.Region) > 0 {
		// The region column is unreliable in production data; the
		// prefecture name inside the free-text address is the source
		// of truth, hence substring match rather than equality.
		parts := make([]string, 0, len(f.Region))
		for _, region := range f.Region {
			parts = append(parts, fmt.Sprintf("address ILIKE '%%' || %s || '%%'", arg(region)))
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}

	for _, p := range Platforms {
		if !f.hasSNS(p.ID) {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("(%s IS NOT NULL AND %s >= %s)", p.URLColumn, p.CountColumn, arg(f.Threshold())))
	}

	return clauses, args
}

func (f *SearchFilter) hasSNS(id string) bool {
	for _, s := range f.SNS {
		if s == id {
			return true
		}
	}
	return false
}
