package company

import (
	"time"
)

// Company is one row of the companies table. Optional columns are
// pointers so a missing value survives the round trip to the store.
type Company struct {
	ID                 string    `json:"id"`
	Name               string    `json:"company_name"`
	Industry           string    `json:"industry"`
	Region             string    `json:"region"`
	Address            *string   `json:"address"`
	EmployeeCount      *int      `json:"employee_count"`
	Description        *string   `json:"description"`
	WebsiteURL         *string   `json:"website_url"`
	XURL               *string   `json:"x_url"`
	XFollowers         *int      `json:"x_followers"`
	InstaURL           *string   `json:"insta_url"`
	InstaFollowers     *int      `json:"insta_followers"`
	TikTokURL          *string   `json:"tiktok_url"`
	TikTokFollowers    *int      `json:"tiktok_followers"`
	YouTubeURL         *string   `json:"youtube_url"`
	YouTubeSubscribers *int      `json:"youtube_subscribers"`
	FacebookURL        *string   `json:"facebook_url"`
	FacebookFollowers  *int      `json:"facebook_followers"`
	LineURL            *string   `json:"line_url"`
	LineFriends        *int      `json:"line_friends"`
	Keyword1           *string   `json:"keyword1,omitempty"`
	Keyword2           *string   `json:"keyword2,omitempty"`
	Keyword3           *string   `json:"keyword3,omitempty"`
	Keyword4           *string   `json:"keyword4,omitempty"`
	Keyword5           *string   `json:"keyword5,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Platform describes one selectable social channel: where its columns
// live in the store and how they are labelled in CSV exports.
type Platform struct {
	ID          string
	URLColumn   string
	CountColumn string
	URLLabel    string
	CountLabel  string
}

// Platforms is the canonical fixed order used by the filter compiler
// and the export formatter. The store also carries x/facebook/line
// columns but those channels are not selectable.
var Platforms = []Platform{
	{ID: "instagram", URLColumn: "insta_url", CountColumn: "insta_followers", URLLabel: "Insta URL", CountLabel: "Instaフォロワー"},
	{ID: "tiktok", URLColumn: "tiktok_url", CountColumn: "tiktok_followers", URLLabel: "TikTok URL", CountLabel: "TikTokフォロワー"},
	{ID: "youtube", URLColumn: "youtube_url", CountColumn: "youtube_subscribers", URLLabel: "Youtube URL", CountLabel: "Youtube登録者数"},
}

func PlatformByID(id string) (Platform, bool) {
	for _, p := range Platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

// ActivePlatforms returns the platforms matching the given ids in
// canonical order, or every platform when no id is given.
func ActivePlatforms(ids []string) []Platform {
	if len(ids) == 0 {
		return Platforms
	}
	selected := make([]Platform, 0, len(Platforms))
	for _, p := range Platforms {
		for _, id := range ids {
			if p.ID == id {
				selected = append(selected, p)
				break
			}
		}
	}
	return selected
}

// PlatformURL returns the company's profile URL for the platform, or
// the empty string when the account is absent.
func (c *Company) PlatformURL(p Platform) string {
	var url *string
	switch p.ID {
	case "instagram":
		url = c.InstaURL
	case "tiktok":
		url = c.TikTokURL
	case "youtube":
		url = c.YouTubeURL
	}
	if url == nil {
		return ""
	}
	return *url
}

// PlatformCount returns the follower/subscriber count for the
// platform. A count without a URL means the account is not present,
// so zero is returned in that case.
func (c *Company) PlatformCount(p Platform) int {
	if c.PlatformURL(p) == "" {
		return 0
	}
	var n *int
	switch p.ID {
	case "instagram":
		n = c.InstaFollowers
	case "tiktok":
		n = c.TikTokFollowers
	case "youtube":
		n = c.YouTubeSubscribers
	}
	if n == nil {
		return 0
	}
	return *n
}

// Row is one normalized import row, ready for the store's upsert.
// Required text fields and count fields always carry a value by the
// time a Row leaves the normalizer; the remaining columns stay nil
// when the upload had nothing for them. Counts stay decimal strings
// because that is what normalization renders; the store's integer
// columns accept them as-is.
type Row struct {
	Name               string
	Industry           string
	Region             string
	Address            *string
	EmployeeCount      string
	Description        *string
	WebsiteURL         *string
	XURL               *string
	XFollowers         string
	InstaURL           *string
	InstaFollowers     string
	TikTokURL          *string
	TikTokFollowers    string
	YouTubeURL         *string
	YouTubeSubscribers string
	FacebookURL        *string
	FacebookFollowers  string
	LineURL            *string
	LineFriends        string
	Keyword1           *string
	Keyword2           *string
	Keyword3           *string
	Keyword4           *string
	Keyword5           *string
}
