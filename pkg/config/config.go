package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Redis     RedisConfig
	Cache     CacheConfig
	SMTP      SMTPConfig
	RabbitMQ  RabbitMQConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	// BaseDomain dominio raíz sobre el que cuelgan los subdominios de cada empresa.
	BaseDomain string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión al cache compartido. Host vacío = cache en memoria.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr devuelve host:port de Redis.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig tiempos de vida de las entradas cacheadas.
type CacheConfig struct {
	DashboardTTL time.Duration
}

// SMTPConfig servidor de correo saliente.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled indica si hay servidor SMTP configurado.
func (c SMTPConfig) Enabled() bool { return c.Host != "" }

// RabbitMQConfig broker para los jobs en segundo plano.
type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	VHost    string
}

// URL devuelve la URL amqp:// del broker.
func (c RabbitMQConfig) URL() string {
	u := &url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + strings.TrimPrefix(c.VHost, "/"),
	}
	return u.String()
}

// StorageConfig archivos subidos y respaldos.
type StorageConfig struct {
	UploadDir     string
	BackupDir     string
	RetentionDays int
}

// SchedulerConfig intervalos del worker.
type SchedulerConfig struct {
	ReportHour       int // hora local (0-23) del reporte diario
	ReminderInterval time.Duration
	CleanupInterval  time.Duration
	BackupInterval   time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_HOST, SMTP_HOST, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			Name:       getString(v, "APP_NAME", "sales-erp"),
			LogLevel:   getString(v, "LOG_LEVEL", "info"),
			BaseDomain: getString(v, "APP_BASE_DOMAIN", "localhost"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "sales_erp"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "sales-erp"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Host:     getString(v, "REDIS_HOST", ""),
			Port:     getInt(v, "REDIS_PORT", 6379),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Cache: CacheConfig{
			DashboardTTL: time.Duration(getInt(v, "CACHE_DASHBOARD_TTL_SECONDS", 300)) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@sales-erp.local"),
		},
		RabbitMQ: RabbitMQConfig{
			User:     getString(v, "RABBITMQ_USER", "guest"),
			Password: getString(v, "RABBITMQ_PASSWORD", "guest"),
			Host:     getString(v, "RABBITMQ_HOST", "localhost"),
			Port:     getInt(v, "RABBITMQ_PORT", 5672),
			VHost:    getString(v, "RABBITMQ_VHOST", "/"),
		},
		Storage: StorageConfig{
			UploadDir:     getString(v, "UPLOAD_DIR", "./uploads"),
			BackupDir:     getString(v, "BACKUP_DIR", "./backups"),
			RetentionDays: getInt(v, "UPLOAD_RETENTION_DAYS", 90),
		},
		Scheduler: SchedulerConfig{
			ReportHour:       getInt(v, "SCHEDULER_REPORT_HOUR", 8),
			ReminderInterval: time.Duration(getInt(v, "SCHEDULER_REMINDER_MINUTES", 60)) * time.Minute,
			CleanupInterval:  time.Duration(getInt(v, "SCHEDULER_CLEANUP_HOURS", 24*7)) * time.Hour,
			BackupInterval:   time.Duration(getInt(v, "SCHEDULER_BACKUP_HOURS", 24)) * time.Hour,
		},
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
