package repository

import (
	"context"

	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// API is the transport every repository issues its calls through.
// *httpclient.Client satisfies it.
type API interface {
	Do(ctx context.Context, req httpclient.Request, out interface{}) error
	Download(ctx context.Context, path string) (*httpclient.Download, error)
}
