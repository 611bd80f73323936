// Package config loads the bridge configuration from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default reference ids used when the Easify server does not provide a value.
// These match the well-known defaults of a stock Easify installation.
const (
	DefaultOrderTypeID            = 5 // Internet Order
	DefaultPaymentTermsID         = 1 // Pro forma
	DefaultOrderStatusID          = 11
	DefaultOrderComment           = "Internet Order"
	DefaultCustomerTypeID         = 1  // Not Known
	DefaultCustomerRelationshipID = 3  // Active
	DefaultTaxID                  = 2  // Standard rate
	DefaultTaxRate                = 20 // Standard rate, percent
)

// Easify holds the connection settings for the remote Easify server.
type Easify struct {
	ServerURL    string        `mapstructure:"server_url"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	PrivateKey   string        `mapstructure:"private_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ShortTimeout time.Duration `mapstructure:"short_timeout"`
	DiscoveryURL string        `mapstructure:"discovery_url"`
	CloudAPIURL  string        `mapstructure:"cloud_api_url"`
	// InsecureSkipVerify disables TLS certificate validation for outbound
	// calls. Only intended for self-signed Easify server deployments.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// ShippingMapping maps shipping methods to the reserved Easify delivery SKUs.
// An empty value means the method is unmapped.
type ShippingMapping struct {
	FreeShipping          string `mapstructure:"free_shipping"`
	LocalDelivery         string `mapstructure:"local_delivery"`
	FlatRate              string `mapstructure:"flat_rate"`
	InternationalDelivery string `mapstructure:"international_delivery"`
}

// SkuForMethod returns the Easify SKU mapped to a storefront shipping method
// name, or "" if no mapping exists.
func (m ShippingMapping) SkuForMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "free_shipping":
		return m.FreeShipping
	case "local_delivery", "local_pickup":
		return m.LocalDelivery
	case "flat_rate":
		return m.FlatRate
	case "international_delivery":
		return m.InternationalDelivery
	}
	return ""
}

// IsDeliverySku reports whether sku is one of the reserved delivery SKUs.
func (m ShippingMapping) IsDeliverySku(sku string) bool {
	if sku == "" {
		return false
	}
	return sku == m.FreeShipping || sku == m.LocalDelivery ||
		sku == m.FlatRate || sku == m.InternationalDelivery
}

// PaymentMapping maps a storefront payment method name to an Easify payment
// method and account.
type PaymentMapping struct {
	Name      string `mapstructure:"name"`
	MethodID  int    `mapstructure:"method_id"`
	AccountID int    `mapstructure:"account_id"`
	Enabled   bool   `mapstructure:"enabled"`
	Comment   string `mapstructure:"comment"`
}

// Orders holds the defaults applied to exported orders.
type Orders struct {
	StatusID               int    `mapstructure:"status_id"`
	TypeID                 int    `mapstructure:"type_id"`
	Comment                string `mapstructure:"comment"`
	PaymentTermsID         int    `mapstructure:"payment_terms_id"`
	CustomerTypeID         int    `mapstructure:"customer_type_id"`
	CustomerRelationshipID int    `mapstructure:"customer_relationship_id"`
	DiscountSku            string `mapstructure:"discount_sku"`
}

// SMTP holds the settings for the best-effort alert email sent when an order
// export fails.
type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Admin holds the credentials and signing secret for the admin API.
type Admin struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
	JWTSecret    string `mapstructure:"jwt_secret"`
}

// Config is the full bridge configuration. It is loaded once at startup and
// passed by value into the components that need it.
type Config struct {
	ListenAddr     string           `mapstructure:"listen_addr"`
	LoggingEnabled bool             `mapstructure:"logging_enabled"`
	StorageBackend string           `mapstructure:"storage_backend"` // "memory" or "postgres"
	DatabaseURL    string           `mapstructure:"database_url"`
	RedisAddr      string           `mapstructure:"redis_addr"`
	Easify         Easify           `mapstructure:"easify"`
	Shipping       ShippingMapping  `mapstructure:"shipping"`
	Payments       []PaymentMapping `mapstructure:"payments"`
	Orders         Orders           `mapstructure:"orders"`
	SMTP           SMTP             `mapstructure:"smtp"`
	Admin          Admin            `mapstructure:"admin"`
}

// PaymentMappingByName returns the payment mapping for a storefront payment
// method name, falling back to the mapping named "Default" and finally nil.
func (c Config) PaymentMappingByName(name string) *PaymentMapping {
	var def *PaymentMapping
	for i := range c.Payments {
		m := &c.Payments[i]
		if strings.EqualFold(m.Name, name) {
			return m
		}
		if strings.EqualFold(m.Name, "Default") {
			def = m
		}
	}
	return def
}

// IsPaymentMethodEnabled reports whether the named payment method has been
// mapped and enabled.
func (c Config) IsPaymentMethodEnabled(name string) bool {
	for i := range c.Payments {
		if strings.EqualFold(c.Payments[i].Name, name) {
			return c.Payments[i].Enabled
		}
	}
	return false
}

// Load reads configuration from an optional file plus EASIFY_* environment
// variables and returns the resulting Config.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("logging_enabled", false)
	v.SetDefault("storage_backend", "memory")
	v.SetDefault("easify.timeout", 600*time.Second)
	v.SetDefault("easify.short_timeout", 25*time.Second)
	v.SetDefault("easify.discovery_url", "https://www.easify.co.uk/api/Security/GetEasifyServerEndpoint")
	v.SetDefault("easify.cloud_api_url", "https://cloudapi.easify.co.uk/api/EasifyCloudApi")
	v.SetDefault("easify.insecure_skip_verify", false)
	v.SetDefault("orders.status_id", DefaultOrderStatusID)
	v.SetDefault("orders.type_id", DefaultOrderTypeID)
	v.SetDefault("orders.comment", DefaultOrderComment)
	v.SetDefault("orders.payment_terms_id", DefaultPaymentTermsID)
	v.SetDefault("orders.customer_type_id", DefaultCustomerTypeID)
	v.SetDefault("orders.customer_relationship_id", DefaultCustomerRelationshipID)

	v.SetEnvPrefix("easify")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
