package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Mode string `mapstructure:"mode" validate:"oneof=debug release test"`
	// AllowedOrigins may call the admin API from a browser.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// AdminRateLimit is requests per minute per client IP on the admin API.
	// Enforced only with Redis enabled; 0 disables it.
	AdminRateLimit int `mapstructure:"admin_rate_limit" validate:"min=0"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver selects the gorm dialector: mysql in production, sqlite for local runs.
	Driver          string `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"min=0"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "sqlite" {
		return d.Database
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"required,email"`
	FromName     string `mapstructure:"from_name"`
	BaseURL      string `mapstructure:"base_url"`
	// TemplatesDir holds optional custom.{kind}.md overrides of the notice templates.
	TemplatesDir string `mapstructure:"templates_dir"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SchedulerConfig holds the trigger times of the two daily passes.
type SchedulerConfig struct {
	Timezone       string        `mapstructure:"timezone"`
	ReminderCron   string        `mapstructure:"reminder_cron" validate:"required"`
	ExpirationCron string        `mapstructure:"expiration_cron" validate:"required"`
	PassTimeout    time.Duration `mapstructure:"pass_timeout" validate:"gt=0"`
}

type ReconcilerConfig struct {
	Workers               int           `mapstructure:"workers" validate:"min=1,max=64"`
	ItemTimeout           time.Duration `mapstructure:"item_timeout" validate:"gt=0"`
	ReminderLease         time.Duration `mapstructure:"reminder_lease" validate:"gt=0"`
	ReminderWindowMinDays int           `mapstructure:"reminder_window_min_days" validate:"min=0"`
	ReminderWindowMaxDays int           `mapstructure:"reminder_window_max_days" validate:"gtfield=ReminderWindowMinDays"`
}
