package config

import (
	"time"

	"github.com/shopspring/decimal"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
	// ProxyHeader carries the client address, honored only from TrustedProxies.
	ProxyHeader    string   `envconfig:"PROXY_HEADER" default:"X-Forwarded-For"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[onramp]"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Catalog bounds the startup fetch of every provider catalog.
type Catalog struct {
	LoadTimeout time.Duration `envconfig:"LOAD_TIMEOUT" default:"30s"`
}

type Geo struct {
	// MaxMindDB is the path of a GeoLite2/GeoIP2 country database. Empty
	// disables the offline lookup.
	MaxMindDB      string        `envconfig:"MAXMIND_DB"`
	RemoteURL      string        `envconfig:"REMOTE_URL" default:"https://api.iplocation.net"`
	RemoteTimeout  time.Duration `envconfig:"REMOTE_TIMEOUT" default:"5s"`
	DefaultCountry string        `envconfig:"DEFAULT_COUNTRY" default:"GB"`
	CacheTTL       time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	CacheCleanup   time.Duration `envconfig:"CACHE_CLEANUP" default:"10m"`
}

// Redis backs the IP to country cache. An empty URL keeps the cache in memory.
type Redis struct {
	URL       string `envconfig:"URL"`
	KeyPrefix string `envconfig:"KEY_PREFIX" default:"onramp:geo:"`
}

type Onboard struct {
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"USD"`
}

type Binance struct {
	MerchantCode string          `envconfig:"MERCHANT_CODE"`
	URL          string          `envconfig:"URL" default:"https://sandbox.bifinitypay.com"`
	RedirectURL  string          `envconfig:"REDIRECT_URL" default:"https://www.binancecnt.com/en/pre-connect"`
	ProxyURL     string          `envconfig:"PROXY_URL"`
	FeePercent   decimal.Decimal `envconfig:"FEE_PERCENT" default:"2"`
	HTTPTimeout  time.Duration   `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RPS          float64         `envconfig:"RPS" default:"10"`
}

type Transak struct {
	APIKey      string        `envconfig:"API_KEY"`
	URL         string        `envconfig:"API_URL" default:"https://staging-api.transak.com"`
	RedirectURL string        `envconfig:"REDIRECT_URL" default:"https://global.transak.com/"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RPS         float64       `envconfig:"RPS" default:"10"`
}

type MtPelerin struct {
	URL         string        `envconfig:"API_URL" default:"https://api.mtpelerin.com"`
	WidgetURL   string        `envconfig:"WIDGET_URL" default:"https://widget.mtpelerin.com/"`
	WidgetToken string        `envconfig:"WIDGET_TOKEN"`
	Referrer    string        `envconfig:"REFERRER" default:"onramp"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	RPS         float64       `envconfig:"RPS" default:"10"`
}

// Signing holds the Binance merchant key pair, PEM or DER, optionally base64
// encoded.
type Signing struct {
	PrivateKey string `envconfig:"PRIVATE_KEY"`
	PublicKey  string `envconfig:"PUBLIC_KEY"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Catalog   *Catalog   `envconfig:"CATALOG"`
	Geo       *Geo       `envconfig:"GEO"`
	Redis     *Redis     `envconfig:"REDIS"`
	Onboard   *Onboard   `envconfig:"ONBOARD"`
	Binance   *Binance   `envconfig:"BINANCE"`
	Transak   *Transak   `envconfig:"TRANSAK"`
	MtPelerin *MtPelerin `envconfig:"MTPELERIN"`
	Signing   *Signing   `envconfig:"SIGNING"`
}
