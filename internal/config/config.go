package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port                 string
	DatabaseHost         string
	DatabasePort         string
	DatabaseUser         string
	DatabasePassword     string
	DatabaseName         string
	DatabaseSSLMode      string
	StripeKey            string
	StripeEndpointSecret string
	StripePublishableKey string
	EmailAPIKey          string
	AdminEmail           string
	SupportEmail         string
	NoReplyEmail         string
	MachineToken         string
	SentryDSN            string
	Env                  string
	SiteName             string
	SiteHost             string
	URLProtocol          string
	MaintenanceMode      bool
	PricePerItem         int64
	MinPurchaseCount     int
	PreviewLimit         int
	ExportLimit          int
	ImportBatchSize      int
}

func LoadConfig() (Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	databaseHost := os.Getenv("DATABASE_HOST")
	if databaseHost == "" {
		return Config{}, fmt.Errorf("DATABASE_HOST cannot be empty")
	}
	databasePort := os.Getenv("DATABASE_PORT")
	if databasePort == "" {
		return Config{}, fmt.Errorf("DATABASE_PORT cannot be empty")
	}
	databaseUser := os.Getenv("DATABASE_USER")
	if databaseUser == "" {
		return Config{}, fmt.Errorf("DATABASE_USER cannot be empty")
	}
	databasePassword := os.Getenv("DATABASE_PASSWORD")
	if databasePassword == "" {
		return Config{}, fmt.Errorf("DATABASE_PASSWORD cannot be empty")
	}
	databaseName := os.Getenv("DATABASE_NAME")
	if databaseName == "" {
		return Config{}, fmt.Errorf("DATABASE_NAME cannot be empty")
	}
	databaseSSLMode := os.Getenv("DATABASE_SSL_MODE")
	if databaseSSLMode == "" {
		return Config{}, fmt.Errorf("DATABASE_SSL_MODE cannot be empty")
	}
	stripeKey := os.Getenv("STRIPE_KEY")
	if stripeKey == "" {
		return Config{}, fmt.Errorf("STRIPE_KEY cannot be empty")
	}
	stripeEndpointSecret := os.Getenv("STRIPE_ENDPOINT_SECRET")
	if stripeEndpointSecret == "" {
		return Config{}, fmt.Errorf("STRIPE_ENDPOINT_SECRET cannot be empty")
	}
	stripePublishableKey := os.Getenv("STRIPE_PUBLISHABLE_KEY")
	if stripePublishableKey == "" {
		return Config{}, fmt.Errorf("STRIPE_PUBLISHABLE_KEY cannot be empty")
	}
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return Config{}, fmt.Errorf("ADMIN_EMAIL cannot be empty")
	}
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		return Config{}, fmt.Errorf("SUPPORT_EMAIL cannot be empty")
	}
	noReplyEmail := os.Getenv("NO_REPLY_EMAIL")
	if noReplyEmail == "" {
		return Config{}, fmt.Errorf("NO_REPLY_EMAIL cannot be empty")
	}
	machineToken := os.Getenv("MACHINE_TOKEN")
	if machineToken == "" {
		return Config{}, fmt.Errorf("MACHINE_TOKEN cannot be empty")
	}
	env := os.Getenv("ENV")
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	urlProtocol := "https://"
	if env == "dev" {
		urlProtocol = "http://"
	}
	pricePerItem, err := intEnv("PRICE_PER_ITEM", 15)
	if err != nil {
		return Config{}, err
	}
	minPurchaseCount, err := intEnv("MIN_PURCHASE_COUNT", 100)
	if err != nil {
		return Config{}, err
	}
	previewLimit, err := intEnv("PREVIEW_LIMIT", 5)
	if err != nil {
		return Config{}, err
	}
	exportLimit, err := intEnv("EXPORT_LIMIT", 50000)
	if err != nil {
		return Config{}, err
	}
	importBatchSize, err := intEnv("IMPORT_BATCH_SIZE", 500)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:                 port,
		DatabaseHost:         databaseHost,
		DatabasePort:         databasePort,
		DatabaseUser:         databaseUser,
		DatabasePassword:     databasePassword,
		DatabaseName:         databaseName,
		DatabaseSSLMode:      databaseSSLMode,
		StripeKey:            stripeKey,
		StripeEndpointSecret: stripeEndpointSecret,
		StripePublishableKey: stripePublishableKey,
		EmailAPIKey:          os.Getenv("EMAIL_API_KEY"),
		AdminEmail:           adminEmail,
		SupportEmail:         supportEmail,
		NoReplyEmail:         noReplyEmail,
		MachineToken:         machineToken,
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		Env:                  env,
		SiteName:             siteName,
		SiteHost:             siteHost,
		URLProtocol:          urlProtocol,
		MaintenanceMode:      os.Getenv("MAINTENANCE_MODE") == "true",
		PricePerItem:         int64(pricePerItem),
		MinPurchaseCount:     minPurchaseCount,
		PreviewLimit:         previewLimit,
		ExportLimit:          exportLimit,
		ImportBatchSize:      importBatchSize,
	}, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %v", name, err)
	}
	return v, nil
}
