package ingest

import (
	"io"

	domdoc "github.com/kailas-cloud/vecrag/internal/domain/document"
)

// Kind names a Source variant; it is also the metrics label.
type Kind string

// Source kinds.
const (
	KindSingle Kind = "single"
	KindMany   Kind = "many"
	KindFile   Kind = "file"
	KindUpload Kind = "upload"
)

// Source is one of SingleSource, ManySource, FileSource, LocalFileSource or UploadSource.
type Source interface {
	Kind() Kind
	isSource()
}

// SingleSource is one raw document. Missing text is an error, not a skip.
type SingleSource struct {
	Raw domdoc.Raw
}

// ManySource is an array of raw documents.
type ManySource struct {
	Raws []domdoc.Raw
}

// FileSource is a JSON file path relative to the import directory.
type FileSource struct {
	Path string
}

// LocalFileSource is a JSON file on the local filesystem, read as is.
// Only operator tooling builds it; request handlers use FileSource.
type LocalFileSource struct {
	Path string
}

// UploadSource is an uploaded JSON file. Body is spooled to the upload
// directory and removed afterwards.
type UploadSource struct {
	Filename string
	Body     io.Reader
}

func (SingleSource) Kind() Kind    { return KindSingle }
func (ManySource) Kind() Kind      { return KindMany }
func (FileSource) Kind() Kind      { return KindFile }
func (LocalFileSource) Kind() Kind { return KindFile }
func (UploadSource) Kind() Kind    { return KindUpload }

func (SingleSource) isSource()    {}
func (ManySource) isSource()      {}
func (FileSource) isSource()      {}
func (LocalFileSource) isSource() {}
func (UploadSource) isSource()    {}
