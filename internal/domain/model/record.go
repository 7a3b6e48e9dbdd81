// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "time"

// RecordBase holds the fields shared by every inventory record variant
type RecordBase struct {
	// GlobalID uniquely identifies the record across all variants
	GlobalID GlobalID
	// Name is the display name
	Name string
	// Owner is the username of the owner
	Owner string
	// ParentGlobalID is the container (or sample, for subsamples) holding the record
	ParentGlobalID GlobalID
	// Deleted marks records moved to the trash
	Deleted bool
	// Summary marks a list entry whose full details have not been fetched
	Summary bool
	Created  time.Time
	Modified time.Time
}

// Record is one of Sample, SubSample, Container or Template.
// The set is closed: isRecord is unexported.
type Record interface {
	// Base returns a copy of the shared fields
	Base() RecordBase
	// Type returns the record variant
	Type() RecordType
	isRecord()
}

// Sample is a physical sample made from a template
type Sample struct {
	RecordBase
	TemplateGlobalID GlobalID
	SubSampleCount   int
	Quantity         string
}

// SubSample is an aliquot of a sample, stored in a container
type SubSample struct {
	RecordBase
	SampleGlobalID GlobalID
	Quantity       string
}

// ContainerType is the layout of a container's contents
type ContainerType string

const (
	ContainerTypeList      ContainerType = "LIST"
	ContainerTypeGrid      ContainerType = "GRID"
	ContainerTypeImage     ContainerType = "IMAGE"
	ContainerTypeWorkbench ContainerType = "WORKBENCH"
)

// Container holds subsamples and other containers
type Container struct {
	RecordBase
	ContainerType ContainerType
	ContentCount  int
}

// Template describes the fields new samples are created with
type Template struct {
	RecordBase
	Version int
}

func (s *Sample) Base() RecordBase    { return s.RecordBase }
func (s *SubSample) Base() RecordBase { return s.RecordBase }
func (c *Container) Base() RecordBase { return c.RecordBase }
func (t *Template) Base() RecordBase  { return t.RecordBase }

func (*Sample) Type() RecordType    { return RecordTypeSample }
func (*SubSample) Type() RecordType { return RecordTypeSubSample }
func (*Container) Type() RecordType { return RecordTypeContainer }
func (*Template) Type() RecordType  { return RecordTypeTemplate }

func (*Sample) isRecord()    {}
func (*SubSample) isRecord() {}
func (*Container) isRecord() {}
func (*Template) isRecord()  {}

// GlobalIDOf returns the global id of r, or "" for a nil record
func GlobalIDOf(r Record) GlobalID {
	if r == nil {
		return ""
	}
	return r.Base().GlobalID
}

// MatchRecord dispatches on the record variant. Every variant has its own
// parameter, so adding a variant breaks every call site at compile time.
// A nil record yields the zero value of T.
func MatchRecord[T any](
	r Record,
	sample func(*Sample) T,
	subSample func(*SubSample) T,
	container func(*Container) T,
	template func(*Template) T,
) T {
	switch v := r.(type) {
	case *Sample:
		return sample(v)
	case *SubSample:
		return subSample(v)
	case *Container:
		return container(v)
	case *Template:
		return template(v)
	}
	var zero T
	return zero
}

// WithDetails returns a copy of r marked as fully loaded
func WithDetails(r Record) Record {
	return MatchRecord(r,
		func(s *Sample) Record { c := *s; c.Summary = false; return &c },
		func(s *SubSample) Record { c := *s; c.Summary = false; return &c },
		func(s *Container) Record { c := *s; c.Summary = false; return &c },
		func(s *Template) Record { c := *s; c.Summary = false; return &c },
	)
}

// AsSummary returns a copy of r marked as a list summary
func AsSummary(r Record) Record {
	return MatchRecord(r,
		func(s *Sample) Record { c := *s; c.Summary = true; return &c },
		func(s *SubSample) Record { c := *s; c.Summary = true; return &c },
		func(s *Container) Record { c := *s; c.Summary = true; return &c },
		func(s *Template) Record { c := *s; c.Summary = true; return &c },
	)
}
