package company

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyFilterMatchesEverything(t *testing.T) {
	f := &SearchFilter{}
	clauses, args := f.Compile()
	assert.Empty(t, clauses)
	assert.Empty(t, args)
}

func TestCompileKeyword(t *testing.T) {
	f := &SearchFilter{Keyword: "アパレル"}
	clauses, args := f.Compile()
	require.Len(t, clauses, 1)
	require.Len(t, args, 1)
	assert.Equal(t, "アパレル", args[0])
	for _, col := range []string{"company_name", "description", "keyword1", "keyword5"} {
		assert.Contains(t, clauses[0], col+" ILIKE '%' || $1 || '%'")
	}
}

func TestCompileRegionMatchesAddressSubstring(t *testing.T) {
	f := &SearchFilter{Region: []string{"東京都", "大阪府"}}
	clauses, args := f.Compile()
	require.Len(t, clauses, 1)
	assert.Equal(t, "(address ILIKE '%' || $1 || '%' OR address ILIKE '%' || $2 || '%')", clauses[0])
	assert.Equal(t, []interface{}{"東京都", "大阪府"}, args)
}

func TestCompileSNSDefaultThresholdExcludesDormantAccounts(t *testing.T) {
	f := &SearchFilter{SNS: []string{"instagram"}}
	clauses, args := f.Compile()
	require.Len(t, clauses, 1)
	assert.Equal(t, "(insta_url IS NOT NULL AND insta_followers >= $1)", clauses[0])
	// no explicit floor still demands at least one follower
	assert.Equal(t, []interface{}{1}, args)
}

func TestCompileClauseOrderIsDeterministic(t *testing.T) {
	f := &SearchFilter{
		Keyword:      "通販",
		Industry:     []string{"小売"},
		Region:       []string{"東京都"},
		SNS:          []string{"youtube", "instagram"},
		MinFollowers: 5000,
	}
	clauses, args := f.Compile()
	require.Len(t, clauses, 5)
	assert.Contains(t, clauses[0], "company_name ILIKE")
	assert.Equal(t, "industry = ANY($2)", clauses[1])
	assert.Contains(t, clauses[2], "address ILIKE")
	// platform clauses follow catalog order, not request order
	assert.Equal(t, "(insta_url IS NOT NULL AND insta_followers >= $4)", clauses[3])
	assert.Equal(t, "(youtube_url IS NOT NULL AND youtube_subscribers >= $5)", clauses[4])
	require.Len(t, args, 5)
	assert.Equal(t, 5000, args[3])
	assert.Equal(t, 5000, args[4])
}

func TestCompileIsStable(t *testing.T) {
	f := &SearchFilter{Keyword: "通販", Industry: []string{"小売"}, SNS: []string{"tiktok"}}
	clauses1, _ := f.Compile()
	clauses2, _ := f.Compile()
	assert.Equal(t, strings.Join(clauses1, " AND "), strings.Join(clauses2, " AND "))
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, 1, (&SearchFilter{}).Threshold())
	assert.Equal(t, 1, (&SearchFilter{MinFollowers: 0}).Threshold())
	assert.Equal(t, 3000, (&SearchFilter{MinFollowers: 3000}).Threshold())
}

func TestEncodeDecodeFilterRoundTrip(t *testing.T) {
	f := &SearchFilter{
		Keyword:      "通販",
		Industry:     []string{"小売", "IT"},
		Region:       []string{"東京都"},
		SNS:          []string{"instagram", "tiktok"},
		MinFollowers: 1000,
	}
	encoded, err := EncodeFilter(f)
	require.NoError(t, err)
	assert.Contains(t, encoded, `"v":1`)

	decoded, err := DecodeFilter(encoded)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}

func TestEncodeFilterIsDeterministic(t *testing.T) {
	f := &SearchFilter{Keyword: "通販", SNS: []string{"instagram"}}
	a, err := EncodeFilter(f)
	require.NoError(t, err)
	b, err := EncodeFilter(f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeFilterLegacyPayload(t *testing.T) {
	// sessions created before the version tag carry bare filters
	decoded, err := DecodeFilter(`{"keyword":"通販","industry":["小売"],"region":[],"sns":["youtube"]}`)
	require.NoError(t, err)
	assert.Equal(t, "通販", decoded.Keyword)
	assert.Equal(t, []string{"小売"}, decoded.Industry)
	assert.Equal(t, []string{"youtube"}, decoded.SNS)
}

func TestDecodeFilterRejectsNewerSchema(t *testing.T) {
	_, err := DecodeFilter(`{"v":2,"keyword":"通販"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported filter schema version 2")
}

func TestDecodeFilterRejectsGarbage(t *testing.T) {
	_, err := DecodeFilter("not json")
	assert.Error(t, err)
}
