package internal

import "time"

// DetectedVersion is the ONIX dialect inferred from a raw message.
type DetectedVersion string

const (
	Version21      DetectedVersion = "2.1"
	Version30      DetectedVersion = "3.0"
	Version31      DetectedVersion = "3.1"
	VersionUnknown DetectedVersion = "unknown"
)

// MessageHeader carries sender information from the ONIX message header.
type MessageHeader struct {
	SenderName  string
	SenderEmail string
	SentDate    string
}

// Contributor is one ONIX contributor composite. 3.x feeds supply the
// name split into parts; 2.1 reference feeds often supply only a flat
// PersonName string.
type Contributor struct {
	SequenceNumber     int
	Role               string
	PersonName         *string
	PersonNameInverted *string
	NamesBeforeKey     *string
	KeyNames           *string
	CorporateName      *string
}

// Price keeps the amount as the literal decimal string from the feed.
type Price struct {
	PriceType string
	Amount    string
	Currency  string
}

type Subject struct {
	SchemeIdentifier string
	Code             string
	HeadingText      string
}

// ParsedProduct is the canonical per-product shape every dialect parser
// produces. RawIndex is the 0-based position of the Product element in
// the source file.
type ParsedProduct struct {
	RecordReference  string
	ISBN13           *string
	GTIN13           *string
	Title            string
	Subtitle         *string
	Contributors     []Contributor
	ProductForm      *string
	PublishingStatus *string
	PublicationDate  *time.Time
	Prices           []Price
	Subjects         []Subject
	RawIndex         int
}

// ParseResult is what a dialect parser returns for one document.
type ParseResult struct {
	Version       DetectedVersion
	Header        MessageHeader
	Products      []ParsedProduct
	ParsingErrors []string
}

type MappedContributor struct {
	FirstName string
	LastName  string
	Role      string
}

// UnmappedField records a source field with no catalog destination so
// nothing is dropped silently.
type UnmappedField struct {
	Name     string
	RawValue string
}

type ValidationError struct {
	Field   string
	Message string
}

// MappedTitle is the catalog-shaped record produced by the field
// mapper. Rows with validation errors are retained so a user can see
// and correct them.
type MappedTitle struct {
	Title             string
	Subtitle          *string
	ISBN              *string
	PublicationStatus string
	PublicationDate   *string
	Contributors      []MappedContributor
	UnmappedFields    []UnmappedField
	ValidationErrors  []ValidationError
	RawIndex          int
	Conflict          bool
}

// ImportStatus values recorded on stored imports.
const (
	ImportStatusImported = "imported"
	ImportStatusRejected = "rejected"
	ImportStatusFailed   = "failed"
)

// ImportResult is the complete renderable report for one invocation.
// ValidationErrors holds file-level failures (constraints, structure,
// product count); per-row failures live on the individual titles.
type ImportResult struct {
	Version          DetectedVersion
	Header           MessageHeader
	Status           string
	Products         []MappedTitle
	ParsingErrors    []string
	ValidationErrors []ValidationError
}

// FileMeta is the declared metadata the upload collaborator hands over
// alongside the raw bytes.
type FileMeta struct {
	Name string
	Size int64
	Type string
}

// TenantContext scopes stored titles and imports to one tenant.
// Authentication happens upstream; this only threads the identifier.
type TenantContext struct {
	TenantID string
}

type ConflictKind string

const (
	ConflictSkip      ConflictKind = "skip"
	ConflictUpdate    ConflictKind = "update"
	ConflictCreateNew ConflictKind = "create-new"
)

// ConflictResolution is the caller's decision for an ISBN collision.
// This subsystem defines and threads the decision; it never decides.
type ConflictResolution struct {
	Kind    ConflictKind
	NewISBN string
}

// OwnershipSplit assigns one contact a two-decimal percentage share.
type OwnershipSplit struct {
	ContactID  string
	Percentage string
	IsPrimary  bool
}

// ImportSummary is one stored import as listed in history.
type ImportSummary struct {
	ID           int64
	Tenant       string
	Filename     string
	Version      string
	Status       string
	ProductCount int
	ErrorCount   int
	CreatedAt    string
}

// ImportRow is the flattened per-product shape stored for an import and
// rendered in the XLSX report.
type ImportRow struct {
	RawIndex          int
	Title             string
	Subtitle          string
	ISBN              string
	PublicationStatus string
	PublicationDate   string
	Contributors      string
	UnmappedFields    string
	ValidationErrors  string
	Conflict          bool
}
