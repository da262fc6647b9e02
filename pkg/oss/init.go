package oss

import (
	"VidTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// InitMinio returns a nil store when no endpoint is configured.
func InitMinio() (*MediaStore, error) {
	c := config.ConfigInfo.Minio
	if c.Endpoint == "" {
		hlog.Warn("MinIO endpoint not configured, media cleanup disabled")
		return nil, nil
	}

	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", c.Endpoint, c.AccessKey)

	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		hlog.Errorf("Failed to create MinIO client: %v", err)
		return nil, err
	}

	hlog.Info("Connect Minio Success")
	return NewMediaStore(client), nil
}
