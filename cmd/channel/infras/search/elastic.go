package search

import (
	"context"
	"io"

	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
)

// scrollPage is the number of ids fetched per scroll round trip.
const scrollPage = 1000

const mapping = `{
	"mappings": {
		"properties": {
			"title":        {"type": "text"},
			"description":  {"type": "text"},
			"owner_id":     {"type": "keyword"},
			"is_published": {"type": "boolean"},
			"created_at":   {"type": "date"}
		}
	}
}`

type videoDoc struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	IsPublished bool   `json:"is_published"`
	CreatedAt   string `json:"created_at"`
}

func newVideoDoc(v *model.Video) videoDoc {
	return videoDoc{
		Title:       v.Title,
		Description: v.Description,
		OwnerID:     v.OwnerID,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// VideoIndex resolves feed text to video ids. Relevance is discarded; callers
// apply their own ordering.
type VideoIndex struct {
	client *elastic.Client
	index  string
}

func NewVideoIndex(addr, index string) (*VideoIndex, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(addr),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create elastic client")
	}
	return &VideoIndex{client: client, index: index}, nil
}

// EnsureIndex creates the index with its mapping when missing.
func (x *VideoIndex) EnsureIndex(ctx context.Context) error {
	exists, err := x.client.IndexExists(x.index).Do(ctx)
	if err != nil {
		return errors.Wrapf(err, "check index %s", x.index)
	}
	if exists {
		return nil
	}
	if _, err := x.client.CreateIndex(x.index).BodyString(mapping).Do(ctx); err != nil {
		return errors.Wrapf(err, "create index %s", x.index)
	}
	hlog.CtxInfof(ctx, "created elastic index %s", x.index)
	return nil
}

// Search returns every matching id. It scrolls, so matches beyond the
// index's max_result_window are included.
func (x *VideoIndex) Search(ctx context.Context, text string) ([]string, error) {
	scroll := x.client.Scroll(x.index).
		Query(elastic.NewMultiMatchQuery(text, "title", "description")).
		FetchSource(false).
		Size(scrollPage)
	defer func() {
		if err := scroll.Clear(context.Background()); err != nil {
			hlog.CtxWarnf(ctx, "clear search scroll: %v", err)
		}
	}()

	var ids []string
	for {
		res, err := scroll.Do(ctx)
		if err == io.EOF {
			return ids, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "search videos")
		}
		for _, hit := range res.Hits.Hits {
			ids = append(ids, hit.Id)
		}
	}
}

// Upsert indexes one video, replacing any previous document.
func (x *VideoIndex) Upsert(ctx context.Context, v *model.Video) error {
	_, err := x.client.Index().Index(x.index).Id(v.ID).BodyJson(newVideoDoc(v)).Do(ctx)
	return errors.Wrapf(err, "index video %s", v.ID)
}

// Backfill bulk-indexes videos. The reindexer feeds it every stored video.
func (x *VideoIndex) Backfill(ctx context.Context, videos []*model.Video) error {
	if len(videos) == 0 {
		return nil
	}
	bulk := x.client.Bulk()
	for _, v := range videos {
		bulk.Add(elastic.NewBulkIndexRequest().Index(x.index).Id(v.ID).Doc(newVideoDoc(v)))
	}
	res, err := bulk.Do(ctx)
	if err != nil {
		return errors.Wrap(err, "bulk index videos")
	}
	if failed := res.Failed(); len(failed) > 0 {
		return errors.Errorf("bulk index: %d of %d videos failed", len(failed), len(videos))
	}
	return nil
}

func (x *VideoIndex) Remove(ctx context.Context, videoID string) error {
	_, err := x.client.Delete().Index(x.index).Id(videoID).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return errors.Wrapf(err, "remove video %s from index", videoID)
	}
	return nil
}
