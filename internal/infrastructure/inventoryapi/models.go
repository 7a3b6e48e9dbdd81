// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package inventoryapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
)

// SearchResult is the body of the search endpoint
type SearchResult struct {
	TotalHits int          `json:"totalHits"`
	Records   []APIRecord  `json:"records"`
	Links     []APIRelLink `json:"_links"`
}

// APIRelLink is one hypermedia link of a response
type APIRelLink struct {
	Link string `json:"link"`
	Rel  string `json:"rel"`
}

// APIOwner is the owner block of a record
type APIOwner struct {
	Username string `json:"username"`
}

// APIReference points at another record
type APIReference struct {
	GlobalID string `json:"globalId"`
}

// APIQuantity is an amount with its unit
type APIQuantity struct {
	NumericValue float64 `json:"numericValue"`
	Unit         string  `json:"unit,omitempty"`
}

// APIContentSummary counts the contents of a container
type APIContentSummary struct {
	TotalCount int `json:"totalCount"`
}

// APIRecord is an inventory record as the API returns it. Only the fields
// the search engine reads are declared.
type APIRecord struct {
	GlobalID         string         `json:"globalId"`
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	Owner            *APIOwner      `json:"owner,omitempty"`
	Deleted          bool           `json:"deleted"`
	Created          *time.Time     `json:"created,omitempty"`
	LastModified     *time.Time     `json:"lastModified,omitempty"`
	ParentContainers []APIReference `json:"parentContainers,omitempty"`

	// samples
	TemplateID      *int64       `json:"templateId,omitempty"`
	SubSamplesCount int          `json:"subSamplesCount,omitempty"`
	Quantity        *APIQuantity `json:"quantity,omitempty"`

	// subsamples
	SampleInfo *APIReference `json:"sampleInfo,omitempty"`

	// containers
	CType          string             `json:"cType,omitempty"`
	ContentSummary *APIContentSummary `json:"contentSummary,omitempty"`

	// templates
	Version int `json:"version,omitempty"`
}

// apiTemplateType is how the API names the template variant
const apiTemplateType = "SAMPLE_TEMPLATE"

// document converts the API record into the shared wire document
func (r APIRecord) document(summary bool) model.RecordDocument {
	recordType := r.Type
	if recordType == apiTemplateType {
		recordType = string(model.RecordTypeTemplate)
	}

	doc := model.RecordDocument{
		GlobalID:       r.GlobalID,
		Type:           recordType,
		Name:           r.Name,
		Deleted:        r.Deleted,
		Summary:        summary,
		Created:        r.Created,
		Modified:       r.LastModified,
		SubSampleCount: r.SubSamplesCount,
		ContainerType:  r.CType,
		Version:        r.Version,
	}
	if r.Owner != nil {
		doc.Owner = r.Owner.Username
	}
	if len(r.ParentContainers) > 0 {
		doc.ParentGlobalID = r.ParentContainers[0].GlobalID
	}
	if r.TemplateID != nil {
		doc.TemplateGlobalID = string(model.NewGlobalID(model.RecordTypeTemplate, *r.TemplateID))
	}
	if r.SampleInfo != nil {
		doc.SampleGlobalID = r.SampleInfo.GlobalID
	}
	if r.Quantity != nil {
		doc.Quantity = strings.TrimSpace(strconv.FormatFloat(r.Quantity.NumericValue, 'f', -1, 64) + " " + r.Quantity.Unit)
	}
	if r.ContentSummary != nil {
		doc.ContentCount = r.ContentSummary.TotalCount
	}
	return doc
}
