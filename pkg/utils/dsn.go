package utils

import (
	"strings"

	"VidTube.com/config"
)

func GetMysqlDsn() string {
	return strings.Join([]string{config.ConfigInfo.Mysql.Username, ":",
		config.ConfigInfo.Mysql.Password, "@tcp(", config.ConfigInfo.Mysql.Addr, ")/",
		config.ConfigInfo.Mysql.Database, "?charset=" + config.ConfigInfo.Mysql.Charset + "&parseTime=True&loc=Local"}, "") //nolint:lll
}

// GetMQUrl returns "" when no broker is configured.
func GetMQUrl() string {
	if config.ConfigInfo.RabbitMq.Addr == "" {
		return ""
	}
	return strings.Join([]string{"amqp://", config.ConfigInfo.RabbitMq.Username, ":",
		config.ConfigInfo.RabbitMq.Password, "@", config.ConfigInfo.RabbitMq.Addr, "/"}, "")
}
