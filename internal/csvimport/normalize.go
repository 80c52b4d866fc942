package csvimport

import (
	"strconv"
	"strings"

	"github.com/tkhsyuki/salies-list/internal/company"
)

// maxCount is the largest value the store's integer columns hold.
const maxCount = 2147483647

// countColumns always end up with a decimal-string value, "0" when
// the upload had nothing usable.
var countColumns = map[string]bool{
	"employee_count":      true,
	"x_followers":         true,
	"insta_followers":     true,
	"tiktok_followers":    true,
	"youtube_subscribers": true,
	"facebook_followers":  true,
	"line_friends":        true,
}

// requiredColumns are NOT NULL at the store; empty values get a "-"
// placeholder instead of failing the row.
var requiredColumns = map[string]bool{
	"company_name": true,
	"industry":     true,
	"region":       true,
}

// NormalizeRow maps one parsed data line onto a typed import row
// using the header sequence. It is total: any input row produces a
// valid Row, defaults substituting for whatever is missing. The id
// column is always dropped (the store assigns identity), as are
// spreadsheet artifact "Unnamed" columns and headers the record does
// not know.
func NormalizeRow(headers, fields []string) company.Row {
	row := emptyRow()
	for j, header := range headers {
		if j >= len(fields) || dropColumn(header) {
			continue
		}
		assign(&row, header, normalizeValue(header, fields[j]))
	}
	return row
}

// dropColumn reports headers that never reach the record: identity is
// store-assigned and "Unnamed" columns are spreadsheet export junk.
func dropColumn(header string) bool {
	return header == "" || strings.EqualFold(header, "id") || strings.HasPrefix(header, "Unnamed")
}

// NormalizeMap is NormalizeRow for the import endpoint's column→value
// mappings. Same rules, same totality.
func NormalizeMap(m map[string]*string) company.Row {
	row := emptyRow()
	for header, raw := range m {
		if dropColumn(header) {
			continue
		}
		v := ""
		if raw != nil {
			v = *raw
		}
		assign(&row, header, normalizeValue(header, v))
	}
	return row
}

func emptyRow() company.Row {
	return company.Row{
		Name:               "-",
		Industry:           "-",
		Region:             "-",
		EmployeeCount:      "0",
		XFollowers:         "0",
		InstaFollowers:     "0",
		TikTokFollowers:    "0",
		YouTubeSubscribers: "0",
		FacebookFollowers:  "0",
		LineFriends:        "0",
	}
}

// normalizeValue applies the per-column rules in order: empty becomes
// null, a float-parsable ".0" suffix is stripped, count columns are
// digit-sanitized, clamped and zero-defaulted, required columns get
// the "-" placeholder.
func normalizeValue(header, v string) *string {
	var val *string
	if v != "" {
		val = &v
	}

	if val != nil && strings.HasSuffix(*val, ".0") {
		if _, err := strconv.ParseFloat(*val, 64); err == nil {
			stripped := (*val)[:len(*val)-2]
			val = &stripped
		}
	}

	if countColumns[header] {
		n := "0"
		if val != nil {
			n = sanitizeCount(*val)
		}
		return &n
	}

	if val == nil && requiredColumns[header] {
		placeholder := "-"
		return &placeholder
	}

	return val
}

// sanitizeCount strips everything that is not a digit or a dot,
// parses the leading integer part, treats failure as zero and clamps
// to the store's integer maximum. "1,000" becomes "1000".
func sanitizeCount(v string) string {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	numStr := b.String()
	if i := strings.IndexByte(numStr, '.'); i >= 0 {
		numStr = numStr[:i]
	}
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		n = 0
	}
	if n > maxCount {
		n = maxCount
	}
	return strconv.FormatInt(n, 10)
}

func assign(row *company.Row, header string, val *string) {
	str := func() string {
		if val == nil {
			return ""
		}
		return *val
	}
	switch header {
	case "company_name":
		row.Name = str()
	case "industry":
		row.Industry = str()
	case "region":
		row.Region = str()
	case "address":
		row.Address = val
	case "employee_count":
		row.EmployeeCount = str()
	case "description":
		row.Description = val
	case "website_url":
		row.WebsiteURL = val
	case "x_url":
		row.XURL = val
	case "x_followers":
		row.XFollowers = str()
	case "insta_url":
		row.InstaURL = val
	case "insta_followers":
		row.InstaFollowers = str()
	case "tiktok_url":
		row.TikTokURL = val
	case "tiktok_followers":
		row.TikTokFollowers = str()
	case "youtube_url":
		row.YouTubeURL = val
	case "youtube_subscribers":
		row.YouTubeSubscribers = str()
	case "facebook_url":
		row.FacebookURL = val
	case "facebook_followers":
		row.FacebookFollowers = str()
	case "line_url":
		row.LineURL = val
	case "line_friends":
		row.LineFriends = str()
	case "keyword1":
		row.Keyword1 = val
	case "keyword2":
		row.Keyword2 = val
	case "keyword3":
		row.Keyword3 = val
	case "keyword4":
		row.Keyword4 = val
	case "keyword5":
		row.Keyword5 = val
	}
}
