package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	Site    Site    `envPrefix:"SITE_"`
	Auth    Auth    `envPrefix:"AUTH_"`
	Gateway Gateway `envPrefix:"GATEWAY_"`

	Stripe    Stripe    `envPrefix:"STRIPE_"`
	Braintree Braintree `envPrefix:"BRAINTREE_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Site holds the checkout-facing URL surface: where shoppers land after a
// successful submission, where they authenticate, and where failures route.
type Site struct {
	BaseURL           string `env:"BASE_URL"`
	ReceiptPath       string `env:"RECEIPT_PATH" envDefault:"/api/checkout/receipt"`
	LoginPath         string `env:"LOGIN_PATH" envDefault:"/login"`
	PaymentErrorPath  string `env:"PAYMENT_ERROR_PATH" envDefault:"/checkout/error"`
	OrderNumberPrefix string `env:"ORDER_NUMBER_PREFIX" envDefault:"SHOP"`
}

type Auth struct {
	JWTSecret  string `env:"JWT_SECRET"`
	CookieName string `env:"COOKIE_NAME" envDefault:"session_token"`
}

// Gateway selects which payment processor implementation to wire at startup.
type Gateway struct {
	Processor string `env:"PROCESSOR" envDefault:"stripe"`
}

type Stripe struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string `env:"SECRET_KEY"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
}
