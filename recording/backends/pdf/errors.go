package pdf

import "errors"

// Sentinel errors for the pdf backend.
var (
	// ErrNoPages is returned when a document without pages is written.
	ErrNoPages = errors.New("pdf: document has no pages")

	// ErrPageOpen is returned when Begin is called while a page is open, or
	// when the document is written before End.
	ErrPageOpen = errors.New("pdf: page still open")

	// ErrNoPage is returned by End when no page is open.
	ErrNoPage = errors.New("pdf: no page open")
)
