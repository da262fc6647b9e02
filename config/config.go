package config

import (
	"os"
	"path/filepath"
	"strings"

	"VidTube.com/pkg/constants"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

// Init reads config.yml from the usual locations relative to the working
// directory. A missing file leaves the defaults in place.
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	v := newViper()
	for _, path := range []string{"../../config", "./config", "../config", "."} {
		v.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}
	v.SetConfigName("config.yml")
	load(v)
}

// InitFrom reads an explicit config file.
func InitFrom(file string) error {
	v := newViper()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	apply(v)
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server.addr", "0.0.0.0:8888")
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("elastic.index", constants.VideoIndex)
	v.SetDefault("elastic.reindex_interval", constants.ReindexInterval)
	v.SetDefault("jaeger.service_name", "vidtube-channel")
	v.SetDefault("jaeger.sample_rate", 1.0)
	v.SetDefault("engine.default_page_size", constants.DefaultLimit)
	v.SetDefault("engine.max_page_size", constants.MaxLimit)
	v.SetDefault("engine.watch_history_limit", constants.WatchHistoryLimit)
	v.SetEnvPrefix("vidtube")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func load(v *viper.Viper) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Errorf("config file not found: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
		apply(v)
		return
	}
	logrus.Infof("Successfully read config file: %s", v.ConfigFileUsed())
	apply(v)
}

func apply(v *viper.Viper) {
	ConfigInfo.Server.Addr = v.GetString("server.addr")
	ConfigInfo.Server.AllowOrigins = v.GetStringSlice("server.allow_origins")
	ConfigInfo.Server.PprofAddr = v.GetString("server.pprof_addr")

	ConfigInfo.Mysql.Addr = v.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = v.GetString("mysql.database")
	ConfigInfo.Mysql.Username = v.GetString("mysql.username")
	ConfigInfo.Mysql.Password = v.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = v.GetString("mysql.charset")

	ConfigInfo.Redis.Addr = v.GetString("redis.addr")
	ConfigInfo.Redis.Password = v.GetString("redis.password")
	ConfigInfo.Redis.DB = v.GetInt("redis.db")

	ConfigInfo.RabbitMq.Addr = v.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = v.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = v.GetString("rabbitmq.password")

	ConfigInfo.Elastic.Addr = v.GetString("elastic.addr")
	ConfigInfo.Elastic.Index = v.GetString("elastic.index")
	ConfigInfo.Elastic.ReindexInterval = v.GetDuration("elastic.reindex_interval")

	ConfigInfo.Minio.Endpoint = v.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = v.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = v.GetString("minio.secret_key")
	ConfigInfo.Minio.UseSSL = v.GetBool("minio.use_ssl")

	ConfigInfo.Jaeger.Agent = v.GetString("jaeger.agent")
	ConfigInfo.Jaeger.ServiceName = v.GetString("jaeger.service_name")
	ConfigInfo.Jaeger.SampleRate = v.GetFloat64("jaeger.sample_rate")

	ConfigInfo.Engine.DefaultPageSize = v.GetInt("engine.default_page_size")
	ConfigInfo.Engine.MaxPageSize = v.GetInt("engine.max_page_size")
	ConfigInfo.Engine.WatchHistoryLimit = v.GetInt("engine.watch_history_limit")

	logrus.Infof("Config loaded - MySQL: %s:%s@%s/%s",
		ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
	if ConfigInfo.Elastic.Addr == "" {
		logrus.Warn("No elastic address configured, text search falls back to the store")
	}
}
