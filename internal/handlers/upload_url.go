package handlers

import (
	"context"

	"buitube/internal/callable"
	"buitube/internal/uploads"
)

const msgUnauthenticated = "The function must be called while authenticated."

type uploadURLRequest struct {
	FileExtension string `json:"fileExtension" validate:"required"`
}

type uploadURLResponse struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// GenerateUploadURL hands the caller a short-lived PUT URL for a new raw
// video object. Nothing is recorded; an unused URL simply expires.
func (f *Functions) GenerateUploadURL(ctx context.Context, req callable.Request) (any, error) {
	if req.Auth == nil {
		return nil, callable.NewError(callable.CodeUnauthenticated, msgUnauthenticated)
	}

	var in uploadURLRequest
	if err := callable.Decode(req, &in); err != nil {
		return nil, err
	}

	fileName := uploads.ObjectName(req.Auth.UID, in.FileExtension, f.now())

	url, err := f.signer.UploadURL(ctx, fileName)
	if err != nil {
		return nil, err
	}

	return uploadURLResponse{URL: url, FileName: fileName}, nil
}
