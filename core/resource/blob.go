package resource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"

	"asset-core/core/assets"
	"asset-core/core/storage"

	"github.com/minio/minio-go/v7"
)

// Blob is the raw content of one stored object.
type Blob struct {
	Path        string
	ContentType string
	Data        []byte
}

// Destroy drops the content.
func (b *Blob) Destroy() error {
	b.Data = nil
	return nil
}

// Size returns the content length in bytes.
func (b *Blob) Size() int {
	return len(b.Data)
}

// ObjectName joins prefix and the request path into a bucket key.
func ObjectName(prefix, p string) string {
	if prefix == "" {
		return p
	}
	return path.Join(prefix, p)
}

// ObjectLoader reads each requested path from bucket, below prefix.
func ObjectLoader(client storage.Client, bucket, prefix string) assets.Loader[*Blob] {
	return func(ctx context.Context, req assets.Request) (*Blob, error) {
		if req.Path == "" {
			return nil, fmt.Errorf("no path mapped for %s", req.ID)
		}
		name := ObjectName(prefix, req.Path)

		obj, err := client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get object %s: %w", name, err)
		}
		defer obj.Close()

		data, err := io.ReadAll(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to read object %s: %w", name, err)
		}

		blob := &Blob{Path: req.Path, Data: data}
		if o, ok := obj.(*minio.Object); ok {
			if info, err := o.Stat(); err == nil {
				blob.ContentType = info.ContentType
			}
		}
		return blob, nil
	}
}

// TextureLoader reads and decodes PNG or JPEG objects into Images.
func TextureLoader(client storage.Client, bucket, prefix string) assets.Loader[Texture] {
	blobs := ObjectLoader(client, bucket, prefix)
	return func(ctx context.Context, req assets.Request) (Texture, error) {
		blob, err := blobs(ctx, req)
		if err != nil {
			return nil, err
		}
		src, _, err := image.Decode(bytes.NewReader(blob.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", req.Path, err)
		}
		img, err := FromImage(src)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", req.Path, err)
		}
		return img, nil
	}
}
