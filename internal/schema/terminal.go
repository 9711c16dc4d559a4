package schema

import "time"

type TerminalCode string

// DocumentSource says where a terminal's schedule document comes from.
type DocumentSource string

const (
	StaticHTTP              DocumentSource = "static_http"
	RenderedByCollaborator  DocumentSource = "rendered_by_collaborator"
	DelegatedExternalResult DocumentSource = "delegated_external_result"
)

// ResolutionMethod selects the adapter logic that runs for a terminal.
type ResolutionMethod string

const (
	HTMLTable        ResolutionMethod = "html_table"
	HTMLText         ResolutionMethod = "html_text"
	Rendered         ResolutionMethod = "rendered"
	ExternalWorkflow ResolutionMethod = "external_workflow"
)

// Mapping of resolution method to the document source it reads from
var SourceForMethod = map[ResolutionMethod]DocumentSource{
	HTMLTable:        StaticHTTP,
	HTMLText:         StaticHTTP,
	Rendered:         RenderedByCollaborator,
	ExternalWorkflow: DelegatedExternalResult,
}

// TerminalProfile is the frozen adapter configuration of one terminal.
type TerminalProfile struct {
	Code             TerminalCode      `json:"code"`
	DisplayName      string            `json:"display_name"`
	DocumentSource   DocumentSource    `json:"document_source"`
	Endpoint         string            `json:"endpoint,omitempty"`
	ResolutionMethod ResolutionMethod  `json:"resolution_method"`
	Timeout          time.Duration     `json:"timeout"`
	Renderer         []string          `json:"renderer,omitempty"`
	SelfTest         *VesselDescriptor `json:"self_test,omitempty"`
}

// ScheduleDocument is a raw document fetched for one resolution call.
type ScheduleDocument struct {
	TerminalCode TerminalCode
	RawContent   string
	FetchedAt    time.Time
}
