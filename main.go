package main

import (
	"embed"
	"log"
	"net/http"

	"github.com/tkhsyuki/salies-list/internal/company"
	"github.com/tkhsyuki/salies-list/internal/config"
	"github.com/tkhsyuki/salies-list/internal/database"
	"github.com/tkhsyuki/salies-list/internal/email"
	"github.com/tkhsyuki/salies-list/internal/handler"
	"github.com/tkhsyuki/salies-list/internal/middleware"
	"github.com/tkhsyuki/salies-list/internal/payment"
	"github.com/tkhsyuki/salies-list/internal/server"
	"github.com/tkhsyuki/salies-list/internal/template"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

//go:embed static
var staticFS embed.FS

func main() {
	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
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
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to create email client: %v", err)
	}
	companyRepo := company.NewRepository(conn)
	paymentRepo := payment.NewRepository(
		cfg.StripeKey,
		cfg.SiteName,
		cfg.SiteHost,
		cfg.URLProtocol,
		cfg.PricePerItem,
	)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		template.NewTemplate(staticFS),
		emailClient,
	)

	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr), []string{"GET"})
	svr.RegisterRoute("/robots.txt", handler.RobotsTxtHandler, []string{"GET"})

	svr.RegisterPathPrefix("/s/", http.StripPrefix("/s/", http.FileServer(http.Dir("./static/assets"))), []string{"GET"})

	// pages
	svr.RegisterRoute("/", handler.IndexPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/success", handler.SuccessPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/contact", handler.ContactPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/maintenance", handler.MaintenancePageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/legal/terms", handler.StaticPageHandler(svr, "terms.html"), []string{"GET"})
	svr.RegisterRoute("/legal/privacy", handler.StaticPageHandler(svr, "privacy.html"), []string{"GET"})
	svr.RegisterRoute("/legal/commercial", handler.StaticPageHandler(svr, "commercial.html"), []string{"GET"})

	// search preview
	svr.RegisterRoute("/x/search", handler.SearchHandler(svr, companyRepo), []string{"POST"})

	// checkout and download
	svr.RegisterRoute("/x/checkout", handler.CheckoutHandler(svr, paymentRepo), []string{"POST"})
	svr.RegisterRoute("/x/download", handler.DownloadHandler(svr, paymentRepo, companyRepo), []string{"GET"})

	// contact form
	svr.RegisterRoute("/x/contact", handler.ContactHandler(svr), []string{"POST"})

	// stripe payment confirmation webhook
	svr.RegisterRoute("/x/stripe/webhook", handler.StripeWebhookHandler(svr), []string{"POST"})

	//
	// private routes
	// at the moment only protected by static token
	//

	svr.RegisterRoute(
		"/x/import",
		middleware.MachineAuthenticatedMiddleware(cfg.MachineToken, handler.ImportHandler(svr, companyRepo)),
		[]string{"POST"},
	)
	svr.RegisterRoute(
		"/x/import/csv",
		middleware.MachineAuthenticatedMiddleware(cfg.MachineToken, handler.ImportCSVHandler(svr, companyRepo)),
		[]string{"POST"},
	)

	log.Fatal(svr.Run())
}
