package config

import "time"

type config struct {
	Server   server   `yaml:"server" mapstructure:"server"`
	Mysql    mysql    `yaml:"mysql" mapstructure:"mysql"`
	Redis    redis    `yaml:"redis" mapstructure:"redis"`
	RabbitMq rabbitmq `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Elastic  elastic  `yaml:"elastic" mapstructure:"elastic"`
	Minio    minio    `yaml:"minio" mapstructure:"minio"`
	Jaeger   jaeger   `yaml:"jaeger" mapstructure:"jaeger"`
	Engine   engine   `yaml:"engine" mapstructure:"engine"`
}

type server struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
	PprofAddr    string   `yaml:"pprof_addr" mapstructure:"pprof_addr"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type elastic struct {
	Addr            string        `yaml:"addr"`
	Index           string        `yaml:"index"`
	ReindexInterval time.Duration `yaml:"reindex_interval" mapstructure:"reindex_interval"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

type jaeger struct {
	Agent       string  `yaml:"agent"`
	ServiceName string  `yaml:"service_name" mapstructure:"service_name"`
	SampleRate  float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

type engine struct {
	DefaultPageSize   int `yaml:"default_page_size" mapstructure:"default_page_size"`
	MaxPageSize       int `yaml:"max_page_size" mapstructure:"max_page_size"`
	WatchHistoryLimit int `yaml:"watch_history_limit" mapstructure:"watch_history_limit"`
}
