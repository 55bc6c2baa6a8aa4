// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/storageindex/indexd/pkg/store"
)

type ErrorCode string

const (
	ErrorCodeInvalidPath    ErrorCode = "INVALID_PATH"
	ErrorCodeInvalidParams  ErrorCode = "INVALID_PARAMS"
	ErrorCodeInvalidID      ErrorCode = "INVALID_ID"
	ErrorCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeFolderNotFound ErrorCode = "FOLDER_NOT_FOUND"
	ErrorCodeItemNotFound   ErrorCode = "ITEM_NOT_FOUND"
	ErrorCodeNotAFile       ErrorCode = "NOT_A_FILE"
	ErrorCodeNotAFolder     ErrorCode = "NOT_A_FOLDER"
	ErrorCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the error body of every endpoint. Message is serialized
// under "error" for compatibility with existing clients.
type ErrorResponse struct {
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"error"`
}

// FileFacet marks an item as a file and carries its MIME type.
type FileFacet struct {
	MimeType string `json:"mimeType"`
}

// FolderFacet marks an item as a folder.
type FolderFacet struct {
	ChildCount int `json:"childCount"`
}

// ImageFacet is attached to image files. It carries no dimensions; clients
// only use its presence to pick a preview renderer.
type ImageFacet struct{}

// VideoFacet is attached to video files.
type VideoFacet struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Duration int `json:"duration"`
}

// FileItem is one entry of a listing or search result. Exactly one of File
// and Folder is set.
type FileItem struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Path                 string       `json:"path,omitempty"`
	Size                 int64        `json:"size"`
	LastModifiedDateTime time.Time    `json:"lastModifiedDateTime"`
	File                 *FileFacet   `json:"file,omitempty"`
	Folder               *FolderFacet `json:"folder,omitempty"`
	Image                *ImageFacet  `json:"image,omitempty"`
	Video                *VideoFacet  `json:"video,omitempty"`
}

// NewFileItem maps a store descriptor onto the wire shape. Folder entries
// carry no path so clients address them through the opaque id.
func NewFileItem(d store.Descriptor) FileItem {
	item := FileItem{
		ID:                   store.EncodeID(d.Path),
		Name:                 d.Name,
		Size:                 d.Size,
		LastModifiedDateTime: d.LastModified.UTC(),
	}
	if d.IsDir {
		item.Folder = &FolderFacet{ChildCount: d.ChildCount}
		return item
	}

	item.Path = store.SitePath(d.Path)
	item.File = &FileFacet{MimeType: d.MimeType}
	if strings.HasPrefix(d.MimeType, "image/") {
		item.Image = &ImageFacet{}
	}
	if strings.HasPrefix(d.MimeType, "video/") {
		item.Video = &VideoFacet{}
	}
	return item
}

// FolderListing is a folder plus its direct children.
type FolderListing struct {
	Path  string     `json:"path"`
	Name  string     `json:"name"`
	Value []FileItem `json:"value"`
}

func NewFolderListing(l store.Listing) FolderListing {
	listing := FolderListing{
		Path:  store.SitePath(l.Path),
		Name:  l.Name,
		Value: make([]FileItem, 0, len(l.Children)),
	}
	for _, child := range l.Children {
		listing.Value = append(listing.Value, NewFileItem(child))
	}
	return listing
}

// FileResponse and FolderResponse are the two discriminated shapes of the
// listing endpoint: the top-level key tells the client which it got.
type FileResponse struct {
	File FileItem `json:"file"`
}

type FolderResponse struct {
	Folder FolderListing `json:"folder"`
}

// ParentReference locates an item's parent in drive-path notation.
type ParentReference struct {
	Path string `json:"path"`
	ID   string `json:"id"`
}

// ItemResponse is the item-by-id endpoint body.
type ItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ParentReference ParentReference `json:"parentReference"`
}

func NewItemResponse(item store.Item) ItemResponse {
	parentPath := "/drive/root:"
	if item.Parent != "" {
		parentPath += "/" + item.Parent
	}
	return ItemResponse{
		ID:   item.ID,
		Name: item.Name,
		ParentReference: ParentReference{
			Path: parentPath,
			ID:   item.ParentID,
		},
	}
}

// ListRequest carries the listing endpoint query parameters.
type ListRequest struct {
	Path string `form:"path"`
	Raw  bool   `form:"raw"`
	Sort string `form:"sort" validate:"omitempty,oneof=name size lastModifiedDateTime"`
}

func (r *ListRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ThumbnailRequest carries the thumbnail endpoint query parameters.
type ThumbnailRequest struct {
	Path  string `form:"path"`
	Size  string `form:"size" validate:"omitempty,oneof=large medium small"`
	Token string `form:"odpt"`
}

func (r *ThumbnailRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
