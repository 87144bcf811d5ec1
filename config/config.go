package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// PaymentConfig holds the razorpay gateway credentials. KeySecret doubles as
// the HMAC key for signature verification.
type PaymentConfig struct {
	KeyID     string `yaml:"key_id" json:"key_id"`
	KeySecret string `yaml:"key_secret" json:"key_secret"`
	Currency  string `yaml:"currency" json:"currency"`
}

// ShippingConfig holds shiprocket credentials and the warehouse pickup
// pincode used for serviceability quotes.
type ShippingConfig struct {
	Email         string `yaml:"email" json:"email"`
	Password      string `yaml:"password" json:"password"`
	PickupPincode string `yaml:"pickup_pincode" json:"pickup_pincode"`
}

// MediaConfig holds the external image host credentials (delete-only; uploads
// go straight from the admin frontend to the host).
type MediaConfig struct {
	CloudName string `yaml:"cloud_name" json:"cloud_name"`
	APIKey    string `yaml:"api_key" json:"api_key"`
	APISecret string `yaml:"api_secret" json:"api_secret"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DBConfig       `yaml:"database" json:"database"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
	Payment  PaymentConfig  `yaml:"payment" json:"payment"`
	Shipping ShippingConfig `yaml:"shipping" json:"shipping"`
	Media    MediaConfig    `yaml:"media" json:"media"`
	SMTP     SMTPConfig     `yaml:"smtp" json:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "Asia/Kolkata",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Password: "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/storefront.log",
	},
	Payment: PaymentConfig{
		Currency: "INR",
	},
	Shipping: ShippingConfig{
		PickupPincode: "400001",
	},
	SMTP: SMTPConfig{
		Port: 587,
	},
}

func setEnvString(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

func setEnvBool(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// variable overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			cfg = new(AppConfig)
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvString("STOREFRONT_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvString("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvInt("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvString("STOREFRONT_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvString("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvString("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvInt("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvString("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvString("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvString("STOREFRONT_DB_PWD", &cfg.Database.Password)
	setEnvString("RAZORPAY_KEY_ID", &cfg.Payment.KeyID)
	setEnvString("RAZORPAY_KEY_SECRET", &cfg.Payment.KeySecret)
	setEnvString("SHIPROCKET_EMAIL", &cfg.Shipping.Email)
	setEnvString("SHIPROCKET_PASSWORD", &cfg.Shipping.Password)
	setEnvString("CLOUDINARY_CLOUD_NAME", &cfg.Media.CloudName)
	setEnvString("CLOUDINARY_API_KEY", &cfg.Media.APIKey)
	setEnvString("CLOUDINARY_API_SECRET", &cfg.Media.APISecret)
	setEnvString("SMTP_HOST", &cfg.SMTP.Host)
	setEnvInt("SMTP_PORT", &cfg.SMTP.Port)
	setEnvString("SMTP_USERNAME", &cfg.SMTP.Username)
	setEnvString("SMTP_PASSWORD", &cfg.SMTP.Password)

	return cfg
}
