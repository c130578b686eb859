package hosted

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pet-services-marketplace/internal/ports/backend"
)

const storagePrefix = "/storage/v1/object/"

func (c *Client) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	if bucket == "" || path == "" {
		return "", backend.Errf(backend.KindUpstream, http.StatusBadRequest, "bucket and path are required")
	}

	headers := c.headers("")
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	// upsert: re-subir un avatar pisa el objeto anterior
	headers["x-upsert"] = "true"

	err := c.http.DoRaw(ctx, http.MethodPost, storagePrefix+objectPath(bucket, path), headers, r)
	if err != nil {
		return "", asBackendError(err, backend.KindUpstream)
	}
	return c.PublicURL(bucket, path), nil
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.http.BaseURL + storagePrefix + "public/" + objectPath(bucket, path)
}

// objectPath escapa bucket y cada segmento del path, preservando los "/".
func objectPath(bucket, path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(segs, "/")
}
