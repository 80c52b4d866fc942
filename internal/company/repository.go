package company

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectColumns = `id, company_name, industry, region, address, employee_count, description, website_url, x_url, x_followers, insta_url, insta_followers, tiktok_url, tiktok_followers, youtube_url, youtube_subscribers, facebook_url, facebook_followers, line_url, line_friends, keyword1, keyword2, keyword3, keyword4, keyword5, created_at`

// Search runs the compiled filter against the companies table and
// returns up to max rows together with the total match count.
func (r *Repository) Search(f *SearchFilter, max int) ([]Company, int, error) {
	clauses, args := f.Compile()
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, max)
	stmt := fmt.Sprintf(`SELECT count(*) OVER() AS full_count, %s FROM companies %s ORDER BY created_at DESC, id LIMIT $%d`, selectColumns, where, len(args))
	rows, err := r.db.Query(stmt, args...)
	companies := []Company{}
	if err == sql.ErrNoRows {
		return companies, 0, nil
	}
	if err != nil {
		return companies, 0, err
	}
	defer rows.Close()
	var fullRowsCount int
	for rows.Next() {
		c := Company{}
		var address, description, websiteURL sql.NullString
		var xURL, instaURL, tiktokURL, youtubeURL, facebookURL, lineURL sql.NullString
		var kw1, kw2, kw3, kw4, kw5 sql.NullString
		var employeeCount, xFollowers, instaFollowers, tiktokFollowers, youtubeSubscribers, facebookFollowers, lineFriends sql.NullInt64
		err = rows.Scan(
			&fullRowsCount,
			&c.ID,
			&c.Name,
			&c.Industry,
			&c.Region,
			&address,
			&employeeCount,
			&description,
			&websiteURL,
			&xURL,
			&xFollowers,
			&instaURL,
			&instaFollowers,
			&tiktokURL,
			&tiktokFollowers,
			&youtubeURL,
			&youtubeSubscribers,
			&facebookURL,
			&facebookFollowers,
			&lineURL,
			&lineFriends,
			&kw1,
			&kw2,
			&kw3,
			&kw4,
			&kw5,
			&c.CreatedAt,
		)
		if err != nil {
			return companies, fullRowsCount, err
		}
		c.Address = nullableString(address)
		c.Description = nullableString(description)
		c.WebsiteURL = nullableString(websiteURL)
		c.XURL = nullableString(xURL)
		c.InstaURL = nullableString(instaURL)
		c.TikTokURL = nullableString(tiktokURL)
		c.YouTubeURL = nullableString(youtubeURL)
		c.FacebookURL = nullableString(facebookURL)
		c.LineURL = nullableString(lineURL)
		c.Keyword1 = nullableString(kw1)
		c.Keyword2 = nullableString(kw2)
		c.Keyword3 = nullableString(kw3)
		c.Keyword4 = nullableString(kw4)
		c.Keyword5 = nullableString(kw5)
		c.EmployeeCount = nullableInt(employeeCount)
		c.XFollowers = nullableInt(xFollowers)
		c.InstaFollowers = nullableInt(instaFollowers)
		c.TikTokFollowers = nullableInt(tiktokFollowers)
		c.YouTubeSubscribers = nullableInt(youtubeSubscribers)
		c.FacebookFollowers = nullableInt(facebookFollowers)
		c.LineFriends = nullableInt(lineFriends)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return companies, fullRowsCount, err
	}
	return companies, fullRowsCount, nil
}

// UpsertBatch writes one import batch inside a single transaction.
// Imported rows never carry an id (the normalizer drops that column),
// so each row gets a fresh ksuid; the ON CONFLICT target keeps the
// statement shape shared with callers that do supply ids.
func (r *Repository) UpsertBatch(batch []Row) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "unable to begin import transaction")
	}
	stmt := `INSERT INTO companies (id, company_name, industry, region, address, employee_count, description, website_url, x_url, x_followers, insta_url, insta_followers, tiktok_url, tiktok_followers, youtube_url, youtube_subscribers, facebook_url, facebook_followers, line_url, line_friends, keyword1, keyword2, keyword3, keyword4, keyword5, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, NOW())
	ON CONFLICT (id)
	DO UPDATE SET company_name = $2, industry = $3, region = $4, address = $5, employee_count = $6, description = $7, website_url = $8, x_url = $9, x_followers = $10, insta_url = $11, insta_followers = $12, tiktok_url = $13, tiktok_followers = $14, youtube_url = $15, youtube_subscribers = $16, facebook_url = $17, facebook_followers = $18, line_url = $19, line_friends = $20, keyword1 = $21, keyword2 = $22, keyword3 = $23, keyword4 = $24, keyword5 = $25`
	count := 0
	for _, row := range batch {
		id, err := ksuid.NewRandom()
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		_, err = tx.Exec(
			stmt,
			id.String(),
			row.Name,
			row.Industry,
			row.Region,
			row.Address,
			row.EmployeeCount,
			row.Description,
			row.WebsiteURL,
			row.XURL,
			row.XFollowers,
			row.InstaURL,
			row.InstaFollowers,
			row.TikTokURL,
			row.TikTokFollowers,
			row.YouTubeURL,
			row.YouTubeSubscribers,
			row.FacebookURL,
			row.FacebookFollowers,
			row.LineURL,
			row.LineFriends,
			row.Keyword1,
			row.Keyword2,
			row.Keyword3,
			row.Keyword4,
			row.Keyword5,
		)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "unable to commit import transaction")
	}
	return count, nil
}

// CompaniesMissingSNS returns companies that have a website but no
// profile URL on at least one selectable platform. Used by the
// enrichment job.
func (r *Repository) CompaniesMissingSNS(max int) ([]Company, error) {
	companies := []Company{}
	rows, err := r.db.Query(`SELECT id, company_name, website_url FROM companies WHERE website_url IS NOT NULL AND (insta_url IS NULL OR tiktok_url IS NULL OR youtube_url IS NULL) ORDER BY created_at DESC LIMIT $1`, max)
	if err != nil {
		return companies, err
	}
	defer rows.Close()
	for rows.Next() {
		c := Company{}
		var websiteURL sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &websiteURL); err != nil {
			return companies, err
		}
		c.WebsiteURL = nullableString(websiteURL)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return companies, err
	}
	return companies, nil
}

// UpdateSNSLink stores a discovered profile URL. The column name
// comes from the platform registry, never from user input.
func (r *Repository) UpdateSNSLink(id string, p Platform, url string) error {
	stmt := fmt.Sprintf(`UPDATE companies SET %s = $1 WHERE id = $2 AND %s IS NULL`, p.URLColumn, p.URLColumn)
	_, err := r.db.Exec(stmt, url, id)
	return err
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
