// Copyright 2025 by Harald Albrecht
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package nexus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/docker/go-units"
)

// Attribute sections and names of file blob stores.
const (
	FileSection       = "file"
	PathAttr          = "path"
	QuotaSection      = "blobStoreQuotaConfig"
	QuotaTypeAttr     = "quotaType"
	QuotaLimitAttr    = "quotaLimitBytes"
	blobStoresRESTAPI = "/blobstores"
)

type blobStoreSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type softQuota struct {
	Type  string `json:"type"`
	Limit int64  `json:"limit"`
}

type fileBlobStore struct {
	Name      string     `json:"name,omitempty"`
	Path      string     `json:"path"`
	SoftQuota *softQuota `json:"softQuota,omitempty"`
}

// BlobStores returns all blob stores. Only file blob stores come with their
// attributes.
func (c *Client) BlobStores(ctx context.Context) ([]BlobStore, error) {
	var summaries []blobStoreSummary
	if err := c.doJSON(ctx, http.MethodGet, blobStoresRESTAPI, nil, &summaries); err != nil {
		return nil, fmt.Errorf("cannot list blob stores, reason: %w", err)
	}
	bss := make([]BlobStore, 0, len(summaries))
	for _, summary := range summaries {
		bs, err := c.blobStore(ctx, summary)
		if err != nil {
			return nil, err
		}
		bss = append(bss, *bs)
	}
	return bss, nil
}

// BlobStore returns the named blob store, or nil if there is none.
func (c *Client) BlobStore(ctx context.Context, name string) (*BlobStore, error) {
	var summaries []blobStoreSummary
	if err := c.doJSON(ctx, http.MethodGet, blobStoresRESTAPI, nil, &summaries); err != nil {
		return nil, fmt.Errorf("cannot list blob stores, reason: %w", err)
	}
	for _, summary := range summaries {
		if summary.Name == name {
			return c.blobStore(ctx, summary)
		}
	}
	return nil, nil
}

func (c *Client) blobStore(ctx context.Context, summary blobStoreSummary) (*BlobStore, error) {
	bs := &BlobStore{Name: summary.Name, Type: summary.Type}
	if summary.Type != FileBlobStoreType {
		return bs, nil
	}
	var fbs fileBlobStore
	err := c.doJSON(ctx, http.MethodGet,
		blobStoresRESTAPI+"/file/"+url.PathEscape(summary.Name), nil, &fbs)
	if err != nil {
		return nil, fmt.Errorf("cannot get blob store %q, reason: %w", summary.Name, err)
	}
	bs.Attributes = map[string]map[string]any{
		FileSection: {PathAttr: fbs.Path},
	}
	if fbs.SoftQuota != nil {
		bs.Attributes[QuotaSection] = map[string]any{
			QuotaTypeAttr:  fbs.SoftQuota.Type,
			QuotaLimitAttr: fbs.SoftQuota.Limit,
		}
	}
	return bs, nil
}

// CreateBlobStore creates a new file blob store.
func (c *Client) CreateBlobStore(ctx context.Context, bs BlobStore) error {
	fbs, err := toFileBlobStore(bs)
	if err != nil {
		return err
	}
	fbs.Name = bs.Name
	if err := c.doJSON(ctx, http.MethodPost, blobStoresRESTAPI+"/file", fbs, nil); err != nil {
		return fmt.Errorf("cannot create blob store %q, reason: %w", bs.Name, err)
	}
	return nil
}

// UpdateBlobStore updates an existing file blob store.
func (c *Client) UpdateBlobStore(ctx context.Context, bs BlobStore) error {
	fbs, err := toFileBlobStore(bs)
	if err != nil {
		return err
	}
	err = c.doJSON(ctx, http.MethodPut,
		blobStoresRESTAPI+"/file/"+url.PathEscape(bs.Name), fbs, nil)
	if err != nil {
		return fmt.Errorf("cannot update blob store %q, reason: %w", bs.Name, err)
	}
	return nil
}

// DeleteBlobStore deletes the named blob store.
func (c *Client) DeleteBlobStore(ctx context.Context, name string) error {
	err := c.doJSON(ctx, http.MethodDelete, blobStoresRESTAPI+"/"+url.PathEscape(name), nil, nil)
	if err != nil {
		return fmt.Errorf("cannot delete blob store %q, reason: %w", name, err)
	}
	return nil
}

// toFileBlobStore returns the REST representation of a file blob store.
func toFileBlobStore(bs BlobStore) (*fileBlobStore, error) {
	if bs.Type != "" && bs.Type != FileBlobStoreType {
		return nil, fmt.Errorf("blob store %q of type %s: %w", bs.Name, bs.Type, ErrUnsupported)
	}
	path, ok := bs.Attributes[FileSection][PathAttr].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("blob store %q lacks %s.%s", bs.Name, FileSection, PathAttr)
	}
	fbs := &fileBlobStore{Path: path}
	quota, ok := bs.Attributes[QuotaSection]
	if !ok {
		return fbs, nil
	}
	quotaType, _ := quota[QuotaTypeAttr].(string)
	limit, err := quotaBytes(quota[QuotaLimitAttr])
	if err != nil {
		return nil, fmt.Errorf("blob store %q with invalid %s.%s, reason: %w",
			bs.Name, QuotaSection, QuotaLimitAttr, err)
	}
	fbs.SoftQuota = &softQuota{Type: quotaType, Limit: limit}
	return fbs, nil
}

// quotaBytes returns the number of bytes specified either as a number or as a
// human-readable size, such as “10GiB”.
func quotaBytes(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return units.RAMInBytes(v)
	case nil:
		return 0, errors.New("missing quota limit")
	}
	return 0, fmt.Errorf("unsupported quota limit %v", value)
}
