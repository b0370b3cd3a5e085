package syncbridge

import (
	"context"
	"io"
	"log"
	"strconv"

	"github.com/example/sassynary-shop/internal/domain/customorder"
	"github.com/example/sassynary-shop/internal/infrastructure/blobstore"
	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

const customOrdersCollection = "custom_orders"

// CustomOrders files bespoke order requests. A nil blob store disables
// reference image uploads.
type CustomOrders struct {
	bridge *Bridge
	blobs  blobstore.Store
}

func NewCustomOrders(b *Bridge, blobs blobstore.Store) *CustomOrders {
	return &CustomOrders{bridge: b, blobs: blobs}
}

// AttachImage uploads a reference image and returns its URL. A failed or
// disabled upload returns "" and the request goes ahead without the image.
func (c *CustomOrders) AttachImage(ctx context.Context, fileName, contentType string, body io.Reader) string {
	if c.blobs == nil {
		log.Printf("[SyncBridge] Image uploads not configured, dropping %q", fileName)
		return ""
	}
	objectPath := customorder.ImagePath(c.bridge.now(), fileName)
	url, err := c.blobs.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		log.Printf("[SyncBridge] Upload of %s failed: %v", objectPath, err)
		return ""
	}
	return url
}

// Submit creates one custom_orders document with status "new", or appends the
// request to custom_orders_<sessionID> when that fails.
func (c *CustomOrders) Submit(ctx context.Context, sessionID string, r customorder.Request) (customorder.Request, Outcome) {
	r = r.Normalized()
	r.CreatedAt = c.bridge.now()

	outcome := c.bridge.write(ctx, NamespaceCustom, sessionID,
		func(ctx context.Context, remote docstore.Store) error {
			id, err := remote.Add(ctx, customOrdersCollection, r.Document())
			if err != nil {
				return err
			}
			r.ID = id
			return nil
		},
		func(ctx context.Context) error {
			r.ID = "local-" + strconv.FormatInt(r.CreatedAt.UnixMilli(), 10)
			return c.bridge.appendLocal(ctx, NamespaceCustom, sessionID, r)
		},
	)
	return r, outcome
}
