package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/logger"
)

// VideosAPI covers the video library and the Google Drive source
type VideosAPI struct {
	c *client.Client
}

// VideoListOptions filters a video listing. Zero fields are omitted.
type VideoListOptions struct {
	ListOptions
	Search     string
	SourceType string
	Visibility Visibility
	Ordering   string
}

func (o VideoListOptions) params() client.Params {
	return merge(o.ListOptions.params(), client.Params{
		"search":      client.NonZero(o.Search),
		"source_type": client.NonZero(o.SourceType),
		"visibility":  client.NonZero(string(o.Visibility)),
		"ordering":    client.NonZero(o.Ordering),
	})
}

func videoPath(id, rest string) string {
	return fmt.Sprintf("/v2/videos/%s/%s", url.PathEscape(id), rest)
}

// List returns the user's videos
func (v *VideosAPI) List(ctx context.Context, opts VideoListOptions) (*Page[Video], error) {
	logger.Debug("Fetching videos", "page", opts.Page, "source_type", opts.SourceType)
	return get[Page[Video]](ctx, v.c, "/v2/videos/", opts.params())
}

// Get returns one video
func (v *VideosAPI) Get(ctx context.Context, id string) (*Video, error) {
	logger.Debug("Fetching video", "video_id", id)
	return get[Video](ctx, v.c, videoPath(id, ""), nil)
}

// Create registers a linked video
func (v *VideosAPI) Create(ctx context.Context, req CreateVideoRequest) (*Video, error) {
	logger.Debug("Creating video", "title", req.Title, "source_type", req.SourceType)
	return send[Video](ctx, v.c, http.MethodPost, "/v2/videos/", req)
}

// Update patches video metadata
func (v *VideosAPI) Update(ctx context.Context, id string, fields map[string]interface{}) (*Video, error) {
	logger.Debug("Updating video", "video_id", id)
	return send[Video](ctx, v.c, http.MethodPatch, videoPath(id, ""), fields)
}

// Delete removes a video
func (v *VideosAPI) Delete(ctx context.Context, id string) error {
	logger.Debug("Deleting video", "video_id", id)
	return v.c.Delete(ctx, videoPath(id, ""), nil)
}

// Search finds videos by text
func (v *VideosAPI) Search(ctx context.Context, query string, opts ListOptions) (*Page[Video], error) {
	logger.Debug("Searching videos", "query", query)
	return get[Page[Video]](ctx, v.c, "/v2/videos/search/", merge(opts.params(), client.Params{"q": query}))
}

// ValidateURL checks that a remote URL can be streamed
func (v *VideosAPI) ValidateURL(ctx context.Context, sourceURL string) (*URLValidation, error) {
	logger.Debug("Validating video url", "url", sourceURL)
	return send[URLValidation](ctx, v.c, http.MethodPost, "/v2/videos/validate-url/", map[string]string{"url": sourceURL})
}

// Analytics returns per-video statistics
func (v *VideosAPI) Analytics(ctx context.Context, id string) (*Stats, error) {
	logger.Debug("Fetching video analytics", "video_id", id)
	return get[Stats](ctx, v.c, videoPath(id, "analytics/"), nil)
}

// DriveVideos lists the videos in the connected Google Drive
func (v *VideosAPI) DriveVideos(ctx context.Context, folderID string) (*Page[DriveFile], error) {
	logger.Debug("Fetching Google Drive videos", "folder_id", folderID)
	return get[Page[DriveFile]](ctx, v.c, "/v2/videos/gdrive/", client.Params{"folder_id": client.NonZero(folderID)})
}

// DriveUpload imports a Drive file into the library
func (v *VideosAPI) DriveUpload(ctx context.Context, fileID, title string) (*Video, error) {
	logger.Debug("Importing Google Drive video", "file_id", fileID)
	body := map[string]string{"gdrive_file_id": fileID}
	if title != "" {
		body["title"] = title
	}
	return send[Video](ctx, v.c, http.MethodPost, "/v2/videos/gdrive/upload/", body)
}

// DriveDelete removes an imported Drive video
func (v *VideosAPI) DriveDelete(ctx context.Context, id string) error {
	logger.Debug("Deleting Google Drive video", "video_id", id)
	return v.c.Delete(ctx, fmt.Sprintf("/v2/videos/gdrive/%s/delete/", url.PathEscape(id)), nil)
}

// DriveStream returns a short-lived streaming URL for a Drive video
func (v *VideosAPI) DriveStream(ctx context.Context, id string) (*StreamURL, error) {
	logger.Debug("Fetching Google Drive stream", "video_id", id)
	return get[StreamURL](ctx, v.c, fmt.Sprintf("/v2/videos/gdrive/%s/stream/", url.PathEscape(id)), nil)
}
