package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/tkhsyuki/salies-list/internal/company"
	"github.com/tkhsyuki/salies-list/internal/csvexport"
	"github.com/tkhsyuki/salies-list/internal/csvimport"
	"github.com/tkhsyuki/salies-list/internal/database"
	"github.com/tkhsyuki/salies-list/internal/email"
	"github.com/tkhsyuki/salies-list/internal/payment"
	"github.com/tkhsyuki/salies-list/internal/server"

	validator "github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/snabb/sitemap"
	stripe "github.com/stripe/stripe-go/v72"
)

var validate = validator.New()

type companySearcher interface {
	Search(f *company.SearchFilter, max int) ([]company.Company, int, error)
}

type listSessionCreator interface {
	CreateListSession(itemCount int, filters string) (*stripe.CheckoutSession, error)
}

type sessionGetter interface {
	GetSession(sessionID string) (*stripe.CheckoutSession, error)
}

// SearchHandler answers the storefront's preview request: the number
// of companies matching the filter plus a handful of sample rows.
// Results are cached by filter hash so repeated identical searches
// skip the store.
func SearchHandler(svr server.Server, companyRepo companySearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &struct {
			Filters company.SearchFilter `json:"filters"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
			return
		}
		encoded, err := company.EncodeFilter(&req.Filters)
		if err != nil {
			svr.Log(err, "unable to encode search filter")
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid filters"})
			return
		}
		cacheKey := searchCacheKey(encoded)
		if cached, ok := svr.CacheGet(cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		samples, total, err := companyRepo.Search(&req.Filters, svr.GetConfig().PreviewLimit)
		if err != nil {
			svr.Log(err, "unable to search companies")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "search failed"})
			return
		}
		if svr.Conn != nil {
			go func() {
				if err := database.TrackSearchEvent(svr.Conn, r.Header.Get("x-forwarded-for"), encoded, total); err != nil {
					svr.Log(err, "unable to track search event")
				}
			}()
		}
		res := map[string]interface{}{
			"count":   total,
			"samples": samples,
		}
		buf, err := json.Marshal(res)
		if err != nil {
			svr.Log(err, "unable to marshal search response")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "search failed"})
			return
		}
		if err := svr.CacheSet(cacheKey, buf); err != nil {
			svr.Log(err, "unable to cache search response")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(buf)
	}
}

func searchCacheKey(encodedFilter string) string {
	sum := sha256.Sum256([]byte(encodedFilter))
	return "search:" + hex.EncodeToString(sum[:])
}

// ImportHandler ingests company records as JSON column→value
// mappings. Machine-token protected; the normalizer makes each
// mapping storable no matter how ragged the upload is.
func ImportHandler(svr server.Server, store csvimport.Upserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &struct {
			Companies []map[string]*string `json:"companies"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
			return
		}
		if len(req.Companies) == 0 {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "companies must be a non-empty array"})
			return
		}
		rows := make([]company.Row, 0, len(req.Companies))
		for _, m := range req.Companies {
			rows = append(rows, csvimport.NormalizeMap(m))
		}
		imp := csvimport.NewImporter(store, svr.GetConfig().ImportBatchSize)
		count, err := imp.Import(rows)
		if err != nil {
			svr.Log(err, "unable to import companies")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error(), "count": count})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"count": count})
	}
}

// ImportCSVHandler ingests a raw CSV document. Same pipeline as
// ImportHandler with the line parser in front.
func ImportCSVHandler(svr server.Server, store csvimport.Upserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "unable to read request body"})
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "empty csv body"})
			return
		}
		imp := csvimport.NewImporter(store, svr.GetConfig().ImportBatchSize)
		count, err := imp.ImportCSV(string(body))
		if err != nil {
			svr.Log(err, "unable to import csv")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": err.Error(), "count": count})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"count": count})
	}
}

type checkoutRequest struct {
	Filters *company.SearchFilter `json:"filters" validate:"required"`
	Count   int                   `json:"count" validate:"required,min=1"`
}

// CheckoutHandler opens a hosted payment session for the current
// search. The filter rides along as session metadata so the download
// can re-run it after payment, on any process instance.
func CheckoutHandler(svr server.Server, payments listSessionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
			return
		}
		if err := validate.Struct(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "filters and count are required"})
			return
		}
		if req.Count < svr.GetConfig().MinPurchaseCount {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": fmt.Sprintf("minimum purchase is %d items", svr.GetConfig().MinPurchaseCount),
			})
			return
		}
		encoded, err := company.EncodeFilter(req.Filters)
		if err != nil {
			svr.Log(err, "unable to encode filters for checkout")
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid filters"})
			return
		}
		sess, err := payments.CreateListSession(req.Count, encoded)
		if err != nil {
			svr.Log(err, "unable to create checkout session")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "checkout failed"})
			return
		}
		if svr.Conn != nil {
			amount := svr.GetConfig().PricePerItem * int64(req.Count)
			if err := database.SavePurchaseEvent(svr.Conn, sess.ID, amount, "jpy", req.Count, encoded); err != nil {
				svr.Log(err, "unable to save purchase event")
			}
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"url": sess.URL})
	}
}

// DownloadHandler streams the purchased list. The paid status and the
// filter both come from the payment session, never from the client.
func DownloadHandler(svr server.Server, payments sessionGetter, companyRepo companySearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "session_id is required"})
			return
		}
		sess, err := payments.GetSession(sessionID)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to retrieve session %s", sessionID))
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid session"})
			return
		}
		if !payment.IsPaid(sess) {
			svr.JSON(w, http.StatusForbidden, map[string]interface{}{"error": "payment not completed"})
			return
		}
		encoded, ok := sess.Metadata["filters"]
		if !ok || encoded == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "session has no filters"})
			return
		}
		filters, err := company.DecodeFilter(encoded)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to decode filters for session %s", sessionID))
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "session has invalid filters"})
			return
		}
		companies, _, err := companyRepo.Search(filters, svr.GetConfig().ExportLimit)
		if err != nil {
			svr.Log(err, "unable to load companies for download")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "download failed"})
			return
		}
		buf := new(bytes.Buffer)
		if err := csvexport.Write(buf, companies, company.ActivePlatforms(filters.SNS)); err != nil {
			svr.Log(err, "unable to render csv for download")
			svr.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "download failed"})
			return
		}
		svr.CSV(w, http.StatusOK, csvexport.Filename(time.Now()), buf.Bytes())
	}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required"`
}

// ContactHandler forwards a contact-form message to the site admin.
// When no email API key is configured the handler still reports
// success, flagged with mocked:true, so the form works in dev and
// the prod misconfiguration is visible in logs.
func ContactHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid request body"})
			return
		}
		if err := validate.Struct(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "name, email and message are required"})
			return
		}
		if svr.SeenSince(r, time.Duration(10*time.Minute)) {
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "please wait before sending another message"})
			return
		}
		if !svr.GetEmail().Configured() {
			svr.Log(fmt.Errorf("email api key not configured"), "contact message not sent, reporting mocked success")
			svr.JSON(w, http.StatusOK, map[string]interface{}{"success": true, "mocked": true})
			return
		}
		policy := bluemonday.StrictPolicy()
		body := fmt.Sprintf(
			"お名前: %s<br>メールアドレス: %s<br>会社名: %s<br><br>%s",
			policy.Sanitize(req.Name),
			policy.Sanitize(req.Email),
			policy.Sanitize(req.Company),
			strings.ReplaceAll(policy.Sanitize(req.Message), "\n", "<br>"),
		)
		err := svr.
			GetEmail().
			SendHTMLEmail(
				email.Address{Name: svr.GetEmail().DefaultSenderName(), Email: svr.GetEmail().NoReplySenderAddress()},
				email.Address{Email: svr.GetConfig().AdminEmail},
				email.Address{Email: req.Email},
				fmt.Sprintf("お問い合わせ: %s", policy.Sanitize(req.Name)),
				body,
			)
		if err != nil {
			svr.Log(err, "unable to send email for contact message")
			svr.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "unable to send message"})
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// StripeWebhookHandler records completed checkouts. The download path
// asks Stripe directly for paid status, so a missed webhook never
// blocks a buyer; this is bookkeeping.
func StripeWebhookHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		const MaxBodyBytes = int64(65536)
		req.Body = http.MaxBytesReader(w, req.Body, MaxBodyBytes)
		body, err := ioutil.ReadAll(req.Body)
		if err != nil {
			svr.Log(err, "error reading request body from stripe")
			svr.JSON(w, http.StatusServiceUnavailable, nil)
			return
		}

		stripeSig := req.Header.Get("Stripe-Signature")
		sess, err := payment.HandleCheckoutSessionComplete(body, svr.GetConfig().StripeEndpointSecret, stripeSig)
		if err != nil {
			svr.Log(err, "error while handling checkout session complete")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if sess != nil {
			if err := database.CompletePurchaseEvent(svr.Conn, sess.ID); err != nil {
				svr.Log(err, fmt.Sprintf("error while completing purchase event %s", sess.ID))
				svr.JSON(w, http.StatusBadRequest, nil)
				return
			}
		}

		svr.JSON(w, http.StatusOK, nil)
	}
}

func SitemapHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		now := time.Now().UTC()
		sitemapFile := sitemap.New()
		for _, path := range []string{"/", "/contact", "/legal/terms", "/legal/privacy", "/legal/commercial"} {
			sitemapFile.Add(&sitemap.URL{
				Loc:     base + path,
				LastMod: &now,
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sitemapFile.WriteTo(buf); err != nil {
			svr.Log(err, "sitemapFile.WriteTo")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

func RobotsTxtHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/robots.txt")
}

func IndexPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusOK, "index.html", map[string]interface{}{
			"Platforms":        company.Platforms,
			"PricePerItem":     svr.GetConfig().PricePerItem,
			"MinPurchaseCount": svr.GetConfig().MinPurchaseCount,
		})
	}
}

func SuccessPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			svr.Redirect(w, r, http.StatusMovedPermanently, "/")
			return
		}
		svr.Render(w, http.StatusOK, "success.html", map[string]interface{}{
			"SessionID": sessionID,
		})
	}
}

func ContactPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusOK, "contact.html", nil)
	}
}

func MaintenancePageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svr.GetConfig().MaintenanceMode {
			svr.Redirect(w, r, http.StatusTemporaryRedirect, "/")
			return
		}
		svr.Render(w, http.StatusOK, "maintenance.html", nil)
	}
}

func StaticPageHandler(svr server.Server, page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusOK, page, nil)
	}
}
