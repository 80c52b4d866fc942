package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tkhsyuki/salies-list/internal/company"
	"github.com/tkhsyuki/salies-list/internal/config"
	"github.com/tkhsyuki/salies-list/internal/database"

	"github.com/PuerkitoBio/goquery"
)

// skipPaths are post, explore and watch URLs; a link to a shared
// article must never get mistaken for the company account.
var skipPaths = []string{"/p/", "/explore/", "/video/", "/watch"}

func main() {
	log.Println("discovering social profiles from company websites")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	companyRepo := company.NewRepository(conn)

	cs, err := companyRepo.CompaniesMissingSNS(500)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %d companies with a website and missing profiles...\n", len(cs))
	client := &http.Client{Timeout: 15 * time.Second}
	for _, c := range cs {
		if c.WebsiteURL == nil {
			continue
		}
		res, err := client.Get(*c.WebsiteURL)
		if err != nil {
			log.Println(err)
			continue
		}
		if res.StatusCode != 200 {
			log.Printf("GET %s: status code error: %d %s", *c.WebsiteURL, res.StatusCode, res.Status)
			res.Body.Close()
			continue
		}

		doc, err := goquery.NewDocumentFromReader(res.Body)
		res.Body.Close()
		if err != nil {
			log.Println(err)
			continue
		}
		found := map[string]string{}
		doc.Find("a").Each(func(i int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			for _, p := range company.Platforms {
				if _, done := found[p.ID]; done {
					continue
				}
				if !strings.Contains(href, platformDomain(p.ID)) {
					continue
				}
				if skippablePath(href) {
					continue
				}
				found[p.ID] = href
			}
		})
		for _, p := range company.Platforms {
			href, ok := found[p.ID]
			if !ok {
				continue
			}
			if c.PlatformURL(p) != "" {
				continue
			}
			if !profileMatchesCompany(client, href, c.Name) {
				log.Printf("%s: rejected %s candidate %s", c.Name, p.ID, href)
				continue
			}
			if err := companyRepo.UpdateSNSLink(c.ID, p, href); err != nil {
				log.Println(err)
				continue
			}
			log.Printf("%s: %s %s", c.Name, p.ID, href)
		}
	}
}

func platformDomain(id string) string {
	switch id {
	case "instagram":
		return "instagram.com/"
	case "tiktok":
		return "tiktok.com/"
	case "youtube":
		return "youtube.com/"
	}
	return ""
}

func skippablePath(href string) bool {
	for _, p := range skipPaths {
		if strings.Contains(href, p) {
			return true
		}
	}
	return false
}

// profileMatchesCompany fetches the candidate profile page and checks
// that the company name shows up in its title or meta description.
// Keeps a footer link to some unrelated account out of the store.
func profileMatchesCompany(client *http.Client, profileURL, name string) bool {
	res, err := client.Get(profileURL)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return false
	}
	if strings.Contains(doc.Find("title").Text(), name) {
		return true
	}
	match := false
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		if metaName, _ := s.Attr("name"); strings.EqualFold(metaName, "description") {
			if content, ok := s.Attr("content"); ok && strings.Contains(content, name) {
				match = true
			}
		}
	})
	return match
}
