package handlers

import (
	"context"

	"buitube/internal/callable"
	"buitube/internal/logging"
	"buitube/internal/videos"
)

// GetVideos returns the first page of videos. Anyone may call it.
func (f *Functions) GetVideos(ctx context.Context, _ callable.Request) (any, error) {
	return f.videos.List(ctx)
}

type updateVideoRequest struct {
	Video *videos.Video `json:"video" validate:"required"`
}

// UpdateVideoDetails merges the supplied fields into videos/{video.id}.
// TODO: check req.Auth.UID against the stored video uid once ownership rules are settled.
func (f *Functions) UpdateVideoDetails(ctx context.Context, req callable.Request) (any, error) {
	var in updateVideoRequest
	if err := callable.Decode(req, &in); err != nil {
		return nil, err
	}

	logging.FromContext(ctx, f.log).
		WithField("video", in.Video).
		Info("updating video details")

	if err := f.videos.Merge(ctx, *in.Video); err != nil {
		return nil, err
	}
	return nil, nil
}
