// Package csvexport renders a purchased company list as the CSV
// document buyers download.
package csvexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tkhsyuki/salies-list/internal/company"
)

// bom makes spreadsheet applications detect UTF-8; without it Excel
// garbles the Japanese headers.
const bom = "\uFEFF"

var baseHeaders = []string{"企業名", "業種", "地域", "住所", "従業員数", "会社HP", "企業概要"}

// Filename follows the companies_list_<ISO-date>.csv convention.
func Filename(t time.Time) string {
	return fmt.Sprintf("companies_list_%s.csv", t.Format("2006-01-02"))
}

// Write emits the BOM, the header row and one data row per company.
// Platform URL/count column pairs appear for the given platforms in
// the order handed in (callers pass company.ActivePlatforms output,
// which is canonical order).
//
// Only the description column is quote-escaped; every other column is
// emitted raw. A comma or quote inside company name, address or
// website would corrupt its row. That holds because import
// normalization sanitizes those fields; the limitation is documented
// and asserted in tests rather than papered over here.
func Write(w io.Writer, companies []company.Company, platforms []company.Platform) error {
	var b strings.Builder
	b.WriteString(bom)

	headers := make([]string, 0, len(baseHeaders)+2*len(platforms))
	headers = append(headers, baseHeaders...)
	for _, p := range platforms {
		headers = append(headers, p.URLLabel, p.CountLabel)
	}
	b.WriteString(strings.Join(headers, ","))

	for i := range companies {
		c := &companies[i]
		fields := []string{
			c.Name,
			c.Industry,
			c.Region,
			orEmpty(c.Address),
			countField(c.EmployeeCount),
			orEmpty(c.WebsiteURL),
			escapeDescription(orEmpty(c.Description)),
		}
		for _, p := range platforms {
			fields = append(fields, c.PlatformURL(p), countString(c.PlatformCount(p)))
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(fields, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeDescription always wraps the description in quotes with
// internal quotes doubled, whether or not it contains a comma.
func escapeDescription(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func orEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// countField renders a stored count column. Zero renders empty, the
// same way the download has always shown absent-or-zero counts.
func countField(v *int) string {
	if v == nil {
		return ""
	}
	return countString(*v)
}

func countString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
