package clickhouse

import (
	"net"
	"strconv"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
)

// Config is the connection section of the application config. Zero fields
// fall back to their default tags in NewClient.
type Config struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host" default:"localhost"`
	Port            int           `yaml:"port" default:"9000" validate:"gte=1,lte=65535"`
	Database        string        `yaml:"database" default:"default"`
	User            string        `yaml:"user" default:"default"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns" default:"10" validate:"gte=1"`
	MaxIdleConns    int           `yaml:"max_idle_conns" default:"5" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"5m"`
	DialTimeout     time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecTime     time.Duration `yaml:"max_execution_time"`
	Compress        bool          `yaml:"compress"`
}

func (c Config) options() *ch.Options {
	o := &ch.Options{
		Addr: []string{net.JoinHostPort(c.Host, strconv.Itoa(c.Port))},
		Auth: ch.Auth{
			Database: c.Database,
			Username: c.User,
			Password: c.Password,
		},
		DialTimeout: c.DialTimeout,
		ReadTimeout: c.ReadTimeout,
		Settings:    ch.Settings{},
	}
	if c.MaxExecTime > 0 {
		o.Settings["max_execution_time"] = int(c.MaxExecTime.Seconds())
	}
	if c.Compress {
		o.Compression = &ch.Compression{Method: ch.CompressionLZ4}
	}
	return o
}
