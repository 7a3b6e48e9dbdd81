// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"time"
)

// RecordDocument is the flat JSON shape every search backend exchanges.
// Variant specific fields are empty for the other variants.
type RecordDocument struct {
	GlobalID       string     `json:"globalId"`
	Type           string     `json:"type"`
	Name           string     `json:"name"`
	Owner          string     `json:"owner,omitempty"`
	ParentGlobalID string     `json:"parentGlobalId,omitempty"`
	Deleted        bool       `json:"deleted,omitempty"`
	Summary        bool       `json:"summary,omitempty"`
	Created        *time.Time `json:"created,omitempty"`
	Modified       *time.Time `json:"modified,omitempty"`

	TemplateGlobalID string `json:"templateGlobalId,omitempty"`
	SubSampleCount   int    `json:"subSampleCount,omitempty"`
	SampleGlobalID   string `json:"sampleGlobalId,omitempty"`
	Quantity         string `json:"quantity,omitempty"`
	ContainerType    string `json:"cType,omitempty"`
	ContentCount     int    `json:"contentCount,omitempty"`
	Version          int    `json:"version,omitempty"`
}

// ToRecord converts the document into its record variant. The type is
// taken from the global id prefix when the document does not carry one.
func (d RecordDocument) ToRecord() (Record, error) {
	gid, err := ParseGlobalID(d.GlobalID)
	if err != nil {
		return nil, err
	}

	recordType := RecordType(d.Type)
	if recordType == "" {
		recordType = gid.RecordType()
	}
	if recordType != gid.RecordType() {
		return nil, fmt.Errorf("record %s declared as %s", gid, d.Type)
	}

	base := RecordBase{
		GlobalID:       gid,
		Name:           d.Name,
		Owner:          d.Owner,
		ParentGlobalID: GlobalID(d.ParentGlobalID),
		Deleted:        d.Deleted,
		Summary:        d.Summary,
	}
	if d.Created != nil {
		base.Created = *d.Created
	}
	if d.Modified != nil {
		base.Modified = *d.Modified
	}

	switch recordType {
	case RecordTypeSample:
		return &Sample{
			RecordBase:       base,
			TemplateGlobalID: GlobalID(d.TemplateGlobalID),
			SubSampleCount:   d.SubSampleCount,
			Quantity:         d.Quantity,
		}, nil
	case RecordTypeSubSample:
		return &SubSample{
			RecordBase:     base,
			SampleGlobalID: GlobalID(d.SampleGlobalID),
			Quantity:       d.Quantity,
		}, nil
	case RecordTypeContainer:
		containerType := ContainerType(d.ContainerType)
		if containerType == "" {
			containerType = ContainerTypeList
			if gid.Prefix() == PrefixBench {
				containerType = ContainerTypeWorkbench
			}
		}
		return &Container{
			RecordBase:    base,
			ContainerType: containerType,
			ContentCount:  d.ContentCount,
		}, nil
	case RecordTypeTemplate:
		return &Template{
			RecordBase: base,
			Version:    d.Version,
		}, nil
	}
	return nil, fmt.Errorf("unknown record type %q", d.Type)
}

// DocumentOf converts a record into its wire document
func DocumentOf(r Record) RecordDocument {
	base := r.Base()
	doc := RecordDocument{
		GlobalID:       string(base.GlobalID),
		Type:           string(r.Type()),
		Name:           base.Name,
		Owner:          base.Owner,
		ParentGlobalID: string(base.ParentGlobalID),
		Deleted:        base.Deleted,
		Summary:        base.Summary,
	}
	if !base.Created.IsZero() {
		created := base.Created
		doc.Created = &created
	}
	if !base.Modified.IsZero() {
		modified := base.Modified
		doc.Modified = &modified
	}

	return MatchRecord(r,
		func(s *Sample) RecordDocument {
			doc.TemplateGlobalID = string(s.TemplateGlobalID)
			doc.SubSampleCount = s.SubSampleCount
			doc.Quantity = s.Quantity
			return doc
		},
		func(s *SubSample) RecordDocument {
			doc.SampleGlobalID = string(s.SampleGlobalID)
			doc.Quantity = s.Quantity
			return doc
		},
		func(c *Container) RecordDocument {
			doc.ContainerType = string(c.ContainerType)
			doc.ContentCount = c.ContentCount
			return doc
		},
		func(t *Template) RecordDocument {
			doc.Version = t.Version
			return doc
		},
	)
}

// ToRecords converts documents in order, skipping and reporting the ones
// that cannot be converted
func ToRecords(docs []RecordDocument) ([]Record, []error) {
	records := make([]Record, 0, len(docs))
	var errs []error
	for _, doc := range docs {
		record, err := doc.ToRecord()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, record)
	}
	return records, errs
}
