package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Azure stores media as block blobs in one container.
type Azure struct {
	client    *azblob.Client
	container string
}

// NewAzure validates the configuration and creates the client without
// contacting the service.
func NewAzure(cfg *AzureConfig, container string) (*Azure, error) {
	if cfg == nil {
		return nil, fmt.Errorf("azure config missing")
	}
	var (
		client *azblob.Client
		err    error
	)
	switch {
	case cfg.ConnectionString != "":
		client, err = azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	case cfg.AccountURL != "":
		cred, cerr := azidentity.NewDefaultAzureCredential(nil)
		if cerr != nil {
			return nil, fmt.Errorf("azure credential: %w", cerr)
		}
		client, err = azblob.NewClient(cfg.AccountURL, cred, nil)
	default:
		return nil, fmt.Errorf("azure connection string or account url required")
	}
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Azure{client: client, container: container}, nil
}

func (a *Azure) EnsureContainer(ctx context.Context) error {
	if _, err := a.client.CreateContainer(ctx, a.container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return unavailable("azure.ensure", err)
		}
	}
	return nil
}

func (a *Azure) Put(ctx context.Context, name string, r io.Reader, _ int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	}
	if _, err := a.client.UploadStream(ctx, a.container, name, r, opts); err != nil {
		return unavailable("azure.put", fmt.Errorf("upload blob %s: %w", name, err))
	}
	return nil
}

func (a *Azure) Get(ctx context.Context, name string) (*Object, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	resp, err := a.client.DownloadStream(ctx, a.container, name, nil)
	if err != nil {
		return nil, classifyBlob("azure.get", err)
	}
	obj := &Object{Body: resp.Body, Size: -1}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.Size = *resp.ContentLength
	}
	return obj, nil
}

func (a *Azure) List(ctx context.Context) ([]string, error) {
	var names []string
	pager := a.client.NewListBlobsFlatPager(a.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classifyBlob("azure.list", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (a *Azure) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, err := a.client.DeleteBlob(ctx, a.container, name, nil); err != nil {
		return classifyBlob("azure.remove", err)
	}
	return nil
}

func (a *Azure) URL(name string) string {
	return strings.TrimSuffix(a.client.URL(), "/") + "/" + a.container + "/" + url.PathEscape(name)
}

func classifyBlob(op string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return notFound(op, err)
	}
	return unavailable(op, err)
}
