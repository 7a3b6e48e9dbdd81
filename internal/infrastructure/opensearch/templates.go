// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
)

var templateFuncs = template.FuncMap{
	"quote": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

// SearchTemplates contains all OpenSearch query templates
type SearchTemplates struct {
	searchRecordsTemplate *template.Template
	recordLookupTemplate  *template.Template
}

// NewSearchTemplates creates a new instance of SearchTemplates
func NewSearchTemplates() (*SearchTemplates, error) {
	searchRecordsTemplate, err := template.New("searchRecords").Funcs(templateFuncs).Parse(searchRecordsSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search records template: %w", err)
	}

	recordLookupTemplate, err := template.New("recordLookup").Funcs(templateFuncs).Parse(recordLookupSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse record lookup template: %w", err)
	}

	return &SearchTemplates{
		searchRecordsTemplate: searchRecordsTemplate,
		recordLookupTemplate:  recordLookupTemplate,
	}, nil
}

// TemplateData represents the data structure for template rendering
type TemplateData struct {
	From      int
	Size      int
	Query     string
	GlobalID  string
	Type      string
	Owner     string
	Parent    string
	Deleted   string
	SortField string
	SortOrder string
}

// sortFields maps sort keys onto index fields
var sortFields = map[model.OrderBy]string{
	model.OrderByName:             "name.keyword",
	model.OrderByGlobalID:         "globalId",
	model.OrderByCreationDate:     "created",
	model.OrderByModificationDate: "modified",
}

// NewTemplateData derives the template input of one search page
func NewTemplateData(params model.FetchParameters) TemplateData {
	data := TemplateData{
		From:      params.Offset(),
		Size:      params.PageSize,
		Query:     params.Query,
		GlobalID:  strings.ToUpper(strings.TrimSpace(params.Query)),
		Owner:     params.OwnedBy,
		Parent:    string(params.ParentGlobalID),
		Deleted:   string(params.DeletedItems),
		SortField: sortFields[params.OrderBy],
		SortOrder: string(params.Order),
	}
	if params.ResultType != model.ResultTypeAll {
		data.Type = string(params.ResultType)
	}
	if data.SortField == "" {
		data.SortField = sortFields[model.OrderByName]
	}
	return data
}

// RenderSearchRecordsQuery renders the paged search query
func (st *SearchTemplates) RenderSearchRecordsQuery(data TemplateData) ([]byte, error) {
	return render(st.searchRecordsTemplate, data)
}

// RenderRecordLookupQuery renders the single record lookup query
func (st *SearchTemplates) RenderRecordLookupQuery(globalID model.GlobalID) ([]byte, error) {
	return render(st.recordLookupTemplate, TemplateData{GlobalID: string(globalID)})
}

// render executes t and checks that the output is valid JSON
func render(t *template.Template, data TemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s query: %w", t.Name(), err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("rendered %s query is not valid JSON: %w", t.Name(), err)
	}
	return compact.Bytes(), nil
}
