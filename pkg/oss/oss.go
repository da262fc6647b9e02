package oss

import (
	"context"
	"fmt"
	"strings"

	"VidTube.com/pkg/constants"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
)

// MediaStore removes the blobs a video owns. Uploads happen elsewhere; the
// object layout is video/{vid}/video.mp4 in the video bucket and
// picture/{vid}/cover.jpg in the picture bucket.
type MediaStore struct {
	client *minio.Client
}

func NewMediaStore(client *minio.Client) *MediaStore {
	return &MediaStore{client: client}
}

type object struct {
	bucket string
	name   string
}

// videoObjects lists the objects of a video. Stored URLs win over the default
// layout when they point into a known bucket.
func videoObjects(videoID, videoURL, thumbnailURL string) []object {
	objs := []object{
		{constants.VideoBucket, "video/" + videoID + "/video.mp4"},
		{constants.ThumbnailBucket, "picture/" + videoID + "/cover.jpg"},
	}
	if name, ok := objectFromURL(videoURL, constants.VideoBucket); ok {
		objs[0].name = name
	}
	if name, ok := objectFromURL(thumbnailURL, constants.ThumbnailBucket); ok {
		objs[1].name = name
	}
	return objs
}

// objectFromURL extracts the object name following "/{bucket}/" in url.
func objectFromURL(url, bucket string) (string, bool) {
	marker := "/" + bucket + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	name := url[i+len(marker):]
	if q := strings.IndexAny(name, "?#"); q >= 0 {
		name = name[:q]
	}
	return name, name != ""
}

func (m *MediaStore) RemoveVideo(ctx context.Context, videoID, videoURL, thumbnailURL string) error {
	var firstErr error
	for _, o := range videoObjects(videoID, videoURL, thumbnailURL) {
		err := m.client.RemoveObject(ctx, o.bucket, o.name, minio.RemoveObjectOptions{})
		if err == nil {
			continue
		}
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			continue
		}
		hlog.CtxErrorf(ctx, "Failed to delete %s/%s: %v", o.bucket, o.name, err)
		if firstErr == nil {
			firstErr = fmt.Errorf("remove %s/%s: %w", o.bucket, o.name, err)
		}
	}
	return firstErr
}
