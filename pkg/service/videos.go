package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/watchparty/cli/pkg/api"
	clierrors "github.com/watchparty/cli/pkg/errors"
	"github.com/watchparty/cli/pkg/formatter"
	"github.com/watchparty/cli/pkg/logger"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/views"
)

// VideoService manages the user's video library and Google Drive imports
type VideoService struct {
	env *Env
}

// NewVideoService creates a new video service
func NewVideoService(env *Env) *VideoService {
	return &VideoService{env: env}
}

// VideoListParams filters and orders the library
type VideoListParams struct {
	Search     string
	SourceType string
	Visibility string
	Sort       string
	Page       int
	PageSize   int
}

// List shows the library
func (s *VideoService) List(ctx context.Context, p VideoListParams) error {
	logger.Debug("Listing videos", "search", p.Search, "sort", p.Sort)

	var page *api.Page[api.Video]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Videos.List(ctx, api.VideoListOptions{
			ListOptions: api.ListOptions{Page: p.Page, PageSize: p.PageSize},
			Search:      p.Search,
			SourceType:  p.SourceType,
			Visibility:  api.Visibility(p.Visibility),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	videos := views.SortVideos(page.Results, p.Sort)
	if err := s.env.Out.PrintList("Videos", videos, formatter.Videos(videos), "No videos yet. Add one with 'watchparty videos add'."); err != nil {
		return err
	}
	if page.HasNext() {
		s.env.Out.Info("\nMore videos available, use --page %d", max(p.Page, 1)+1)
	}
	return nil
}

// Show prints one video
func (s *VideoService) Show(ctx context.Context, id string) error {
	var video *api.Video
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		video, err = s.env.API.Videos.Get(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get video: %w", err)
	}
	return s.env.Out.PrintRecord(video.Title, video, formatter.Video(video))
}

// Add adds a video by URL. The URL is validated first and its detected
// title is used when none is given.
func (s *VideoService) Add(ctx context.Context, req api.CreateVideoRequest) error {
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	if req.SourceURL == "" {
		return clierrors.ValidationError("url", "is required")
	}

	var check *api.URLValidation
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		check, err = s.env.API.Videos.ValidateURL(ctx, req.SourceURL)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to validate URL: %w", err)
	}
	if !check.Valid {
		reason := check.Message
		if reason == "" {
			reason = "is not a supported video URL"
		}
		return clierrors.ValidationError("url", reason)
	}
	if req.Title == "" {
		req.Title = check.Title
	}
	if req.Title == "" {
		return clierrors.ValidationError("title", "is required")
	}
	if req.SourceType == "" {
		req.SourceType = check.SourceType
	}

	var video *api.Video
	err = s.env.call(ctx, func(ctx context.Context) error {
		var err error
		video, err = s.env.API.Videos.Create(ctx, req)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add video: %w", err)
	}
	s.env.Out.Success("Video added: %s", video.Title)
	return s.env.Out.PrintRecord(video.Title, video, formatter.Video(video))
}

// Update changes a video's title, description or visibility. Empty values
// are left unchanged.
func (s *VideoService) Update(ctx context.Context, id, title, description, visibility string) error {
	fields := map[string]interface{}{}
	if title != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if visibility != "" {
		fields["visibility"] = visibility
	}
	if len(fields) == 0 {
		return clierrors.ValidationError("video", "nothing to update")
	}

	var video *api.Video
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		video, err = s.env.API.Videos.Update(ctx, id, fields)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	s.env.Out.Success("Video updated.")
	return s.env.Out.PrintRecord(video.Title, video, formatter.Video(video))
}

// Delete removes a video after confirmation
func (s *VideoService) Delete(ctx context.Context, id string, force bool) error {
	ok, err := s.env.confirm(force, "Delete video %s?", id)
	if err != nil || !ok {
		return err
	}
	err = s.env.call(ctx, func(ctx context.Context) error {
		return s.env.API.Videos.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	s.env.Out.Success("Video deleted.")
	return nil
}

// Search finds public videos
func (s *VideoService) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return clierrors.ValidationError("query", "is required")
	}
	var page *api.Page[api.Video]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Videos.Search(ctx, query, api.ListOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to search videos: %w", err)
	}
	return s.env.Out.PrintList("Videos", page.Results, formatter.Videos(page.Results), fmt.Sprintf("No videos match %q.", query))
}

// Analytics shows a video's stats
func (s *VideoService) Analytics(ctx context.Context, id string) error {
	var stats *api.Stats
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.env.API.Videos.Analytics(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get video analytics: %w", err)
	}
	return s.env.Out.PrintRecord("Video analytics", stats, formatter.Stats(*stats, formatter.StatKeys(*stats)))
}

// Drive lists videos in the connected Google Drive, optionally inside one
// folder
func (s *VideoService) Drive(ctx context.Context, folderID string) error {
	var page *api.Page[api.DriveFile]
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.env.API.Videos.DriveVideos(ctx, folderID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list Drive videos: %w", err)
	}

	t := output.Table{Headers: []string{"ID", "NAME", "TYPE", "SIZE", "MODIFIED"}}
	for _, f := range page.Results {
		t.Rows = append(t.Rows, []string{f.ID, formatter.Truncate(f.Name, 40), f.MimeType, views.FormatFileSize(f.Size), formatter.Timestamp(f.Modified)})
	}
	return s.env.Out.PrintList("Google Drive", page.Results, t, "No videos found in Google Drive. Is the integration connected?")
}

// DriveImport adds a Drive file to the library
func (s *VideoService) DriveImport(ctx context.Context, fileID, title string) error {
	var video *api.Video
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		video, err = s.env.API.Videos.DriveUpload(ctx, fileID, title)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to import from Drive: %w", err)
	}
	s.env.Out.Success("Imported %s", video.Title)
	return nil
}

// Stream prints a playable URL for a Drive video
func (s *VideoService) Stream(ctx context.Context, id string) error {
	var stream *api.StreamURL
	err := s.env.call(ctx, func(ctx context.Context) error {
		var err error
		stream, err = s.env.API.Videos.DriveStream(ctx, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get stream URL: %w", err)
	}
	return s.env.Out.PrintRecord("Stream", stream, []output.Field{
		{Key: "URL", Value: stream.StreamURL},
		{Key: "Expires", Value: formatter.Timestamp(stream.ExpiresAt)},
	})
}
