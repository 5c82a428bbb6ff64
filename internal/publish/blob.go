package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// DefaultContainer is the container Azure static website hosting serves.
const DefaultContainer = "$web"

// BlobUploader uploads to an Azure Blob Storage container.
type BlobUploader struct {
	client       *azblob.Client
	container    string
	cacheControl string
}

var _ Uploader = (*BlobUploader)(nil)

// NewBlobUploader authenticates with the default Azure credential chain
// (environment, workload identity, managed identity, Azure CLI).
func NewBlobUploader(accountURL, container string) (*BlobUploader, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure credential: %w", err)
	}
	client, err := azblob.NewClient(accountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlobUploader(client, container), nil
}

// NewBlobUploaderFromConnectionString authenticates with a storage
// connection string.
func NewBlobUploaderFromConnectionString(conn, container string) (*BlobUploader, error) {
	client, err := azblob.NewClientFromConnectionString(conn, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return newBlobUploader(client, container), nil
}

func newBlobUploader(client *azblob.Client, container string) *BlobUploader {
	if container == "" {
		container = DefaultContainer
	}
	return &BlobUploader{client: client, container: container, cacheControl: "public, max-age=300"}
}

// Upload writes data as a block blob with the given content type.
func (u *BlobUploader) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := u.client.UploadBuffer(ctx, u.container, name, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType:  to.Ptr(contentType),
			BlobCacheControl: to.Ptr(u.cacheControl),
		},
	})
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return fmt.Errorf("%s (HTTP %d): %w", respErr.ErrorCode, respErr.StatusCode, err)
	}
	return err
}
