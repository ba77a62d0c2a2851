package fogwall

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// ErrUnsupportedSource is returned for image sources that are neither a file
// path, an http(s) URL nor a data URL.
var ErrUnsupportedSource = errors.New("fogwall: unsupported image source")

// defaultMaxImageBytes bounds how much a single image source may read.
const defaultMaxImageBytes = 32 << 20

// Loader fetches and decodes the image behind a Poster's ImageSource.
// Implementations must be safe for concurrent use.
type Loader interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, source string) (image.Image, error)

// Load calls f(ctx, source).
func (f LoaderFunc) Load(ctx context.Context, source string) (image.Image, error) {
	return f(ctx, source)
}

// SourceLoader decodes file paths, http(s) URLs and base64 or
// percent-encoded data URLs.
type SourceLoader struct {
	// Client is used for http(s) sources. Nil uses a client with a 30s timeout.
	Client *http.Client
	// MaxBytes caps the size of a single source. Zero means 32 MiB.
	MaxBytes int64
}

// Load reads and decodes source.
func (l *SourceLoader) Load(ctx context.Context, source string) (image.Image, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", describeSource(source), err)
	}
	return img, nil
}

func (l *SourceLoader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return defaultMaxImageBytes
}

func (l *SourceLoader) read(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	case strings.HasPrefix(source, "data:"):
		return decodeDataURL(source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, describeSource(source))
	default:
		f, err := os.Open(strings.TrimPrefix(source, "file:"))
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		return readLimited(f, l.maxBytes())
	}
}

func (l *SourceLoader) fetch(ctx context.Context, source string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %s: status %s", source, resp.Status)
	}
	return readLimited(resp.Body, l.maxBytes())
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("read image: larger than %d bytes", limit)
	}
	return data, nil
}

// decodeDataURL returns the payload of a data URL.
func decodeDataURL(source string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode data URL: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	return []byte(s), nil
}

// describeSource shortens data URLs for logs and errors.
func describeSource(source string) string {
	if strings.HasPrefix(source, "data:") {
		meta, _, _ := strings.Cut(source, ",")
		return meta + ",…"
	}
	return source
}
