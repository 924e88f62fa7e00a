package airprint

// documentTypes lists the formats iOS clients are known to handle. Types
// mapped to false are script or X11 formats CUPS accepts but AirPrint
// clients must never be offered; unknown types are suppressed as well.
var documentTypes = map[string]bool{
	"application/pdf":             true,
	"application/postscript":      true,
	"application/vnd.cups-raster": true,
	"application/octet-stream":    true,
	"image/urf":                   true,
	"image/png":                   true,
	"image/tiff":                  true,
	"image/jpeg":                  true,
	"image/gif":                   true,
	"text/plain":                  true,
	"text/html":                   true,

	"image/x-xwindowdump":   false,
	"image/x-xpixmap":       false,
	"image/x-xbitmap":       false,
	"application/x-shell":   false,
	"application/x-perl":    false,
	"application/x-csource": false,
	"application/x-cshell":  false,
}

// Advertised reports whether mime may appear in the pdl TXT record.
func Advertised(mime string) bool {
	return documentTypes[mime]
}

// FilterFormats keeps the advertised formats of in, preserving order.
func FilterFormats(in []string) []string {
	out := make([]string, 0, len(in))
	for _, mt := range in {
		if Advertised(mt) {
			out = append(out, mt)
		}
	}
	return out
}
