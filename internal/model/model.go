package model

// PrinterAttributes is the subset of a CUPS queue's attributes needed to
// describe it as an AirPrint service. Zero values mean the attribute was
// absent in the server's answer.
type PrinterAttributes struct {
	Name           string
	Shared         bool
	URI            string
	Info           string
	State          int
	Type           int
	ColorSupported bool
	MediaDefault   string

	// DocumentFormats keeps server order. HasDocumentFormats is false when
	// document-format-supported was not reported at all, which is not the
	// same as an empty list.
	DocumentFormats    []string
	HasDocumentFormats bool
}

const (
	DefaultIPPPort = 631

	// MediaA4 is the only media-default value mapped to a PaperMax record.
	MediaA4 = "iso_a4_210x297mm"
)
