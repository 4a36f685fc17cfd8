package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	Auth       AuthConfig
	Restaurant RestaurantConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type AuthConfig struct {
	// Guards the admin surface (slot generation, policy reload).
	JWTSecret   string `envconfig:"ADMIN_JWT_SECRET" required:"true"`
	JWTDuration string `envconfig:"ADMIN_JWT_DURATION" default:"24h"`
}

// RestaurantConfig seeds the policy row on first start. At runtime the
// engines read the persisted policy, not this struct.
type RestaurantConfig struct {
	Name string `envconfig:"RESTAURANT_NAME" default:"The Grand Restaurant"`
	// weekday -> "open-close" in HH:MM, e.g. "monday:11:00-22:00". A weekday
	// missing from the map means the restaurant is closed that day.
	OperatingHours      map[string]string `envconfig:"RESTAURANT_HOURS" default:"monday:11:00-22:00,tuesday:11:00-22:00,wednesday:11:00-22:00,thursday:11:00-22:00,friday:11:00-23:00,saturday:11:00-23:00,sunday:11:00-21:00"`
	SlotDurationMin     int               `envconfig:"RESTAURANT_SLOT_DURATION_MIN" default:"30"`
	MaxPartySize        int               `envconfig:"RESTAURANT_MAX_PARTY_SIZE" default:"8"`
	BookingHorizonDays  int               `envconfig:"RESTAURANT_BOOKING_HORIZON_DAYS" default:"30"`
	DefaultSlotCapacity int               `envconfig:"RESTAURANT_DEFAULT_SLOT_CAPACITY" default:"50"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Auth: AuthConfig{
			JWTSecret:   "test-secret",
			JWTDuration: "1h",
		},
		Restaurant: RestaurantConfig{
			Name: "Test Restaurant",
			OperatingHours: map[string]string{
				"monday":    "11:00-22:00",
				"tuesday":   "11:00-22:00",
				"wednesday": "11:00-22:00",
				"thursday":  "11:00-22:00",
				"friday":    "11:00-23:00",
				"saturday":  "11:00-23:00",
				"sunday":    "11:00-21:00",
			},
			SlotDurationMin:     30,
			MaxPartySize:        8,
			BookingHorizonDays:  30,
			DefaultSlotCapacity: 50,
		},
	}
}
