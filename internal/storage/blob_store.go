package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-storage-blob-go/azblob"

	"brs/internal/models"
	"brs/internal/providers"
	"brs/internal/structures"
)

// BlobStore adapts an Azure blob container to the ColdStore contract.
// Every entry is written with overwrite semantics, which is what makes
// re-archival of the same record idempotent.
type BlobStore struct {
	container azblob.ContainerURL
	logger    providers.Logger
}

func NewBlobStore(conf *structures.Config, logger providers.Logger) (ColdStore, error) {
	creds, err := parseConnectionString(conf.ColdStore.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrStoreUnavailable, err)
	}

	credential, err := azblob.NewSharedKeyCredential(creds.AccountName, creds.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("%w: credential: %s", models.ErrStoreUnavailable, err)
	}

	u, err := url.Parse(fmt.Sprintf("%s/%s", creds.serviceURL(), conf.ColdStore.Container))
	if err != nil {
		return nil, fmt.Errorf("%w: container url: %s", models.ErrStoreUnavailable, err)
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})
	return &BlobStore{
		container: azblob.NewContainerURL(*u, pipeline),
		logger:    logger,
	}, nil
}

func (b *BlobStore) EnsureContainer(ctx context.Context) error {
	_, err := b.container.Create(ctx, azblob.Metadata{}, azblob.PublicAccessNone)
	if err == nil {
		b.logger.Infof(providers.TypeApp, "Created archive container %s", b.container.String())
		return nil
	}
	if serviceCode(err) == azblob.ServiceCodeContainerAlreadyExists {
		return nil
	}
	return fmt.Errorf("%w: create container: %s", models.ErrStoreUnavailable, err)
}

func (b *BlobStore) Put(ctx context.Context, key string, data []byte, metadata map[string]string) error {
	blob := b.container.NewBlockBlobURL(key)
	_, err := blob.Upload(ctx, bytes.NewReader(data),
		azblob.BlobHTTPHeaders{ContentType: "application/gzip"},
		azblob.Metadata(metadata),
		azblob.BlobAccessConditions{},
		azblob.DefaultAccessTier,
		azblob.BlobTagsMap{},
		azblob.ClientProvidedKeyOptions{},
		azblob.ImmutabilityPolicyOptions{})
	if err != nil {
		return fmt.Errorf("%w: put %s: %s", models.ErrStoreUnavailable, key, err)
	}
	return nil
}

func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	blob := b.container.NewBlockBlobURL(key)
	download, err := blob.Download(ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false, azblob.ClientProvidedKeyOptions{})
	if err != nil {
		if serviceCode(err) == azblob.ServiceCodeBlobNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: get %s: %s", models.ErrStoreUnavailable, key, err)
	}

	body := download.Body(azblob.RetryReaderOptions{})
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %s", models.ErrStoreUnavailable, key, err)
	}
	return data, nil
}

func (b *BlobStore) Exists(ctx context.Context, key string) (bool, error) {
	blob := b.container.NewBlockBlobURL(key)
	_, err := blob.GetProperties(ctx, azblob.BlobAccessConditions{}, azblob.ClientProvidedKeyOptions{})
	if err == nil {
		return true, nil
	}
	if serviceCode(err) == azblob.ServiceCodeBlobNotFound {
		return false, nil
	}
	return false, fmt.Errorf("%w: head %s: %s", models.ErrStoreUnavailable, key, err)
}

func (b *BlobStore) List(ctx context.Context, prefix string) ([]BlobInfo, error) {
	options := azblob.ListBlobsSegmentOptions{
		Prefix:  prefix,
		Details: azblob.BlobListingDetails{Metadata: true},
	}

	var infos []BlobInfo
	for marker := (azblob.Marker{}); marker.NotDone(); {
		segment, err := b.container.ListBlobsFlatSegment(ctx, marker, options)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %s", models.ErrStoreUnavailable, prefix, err)
		}
		for _, item := range segment.Segment.BlobItems {
			info := BlobInfo{Name: item.Name, Metadata: item.Metadata}
			if item.Properties.ContentLength != nil {
				info.Size = *item.Properties.ContentLength
			}
			infos = append(infos, info)
		}
		marker = segment.NextMarker
	}
	return infos, nil
}

func serviceCode(err error) azblob.ServiceCodeType {
	if stgErr, ok := err.(azblob.StorageError); ok {
		return stgErr.ServiceCode()
	}
	return ""
}
