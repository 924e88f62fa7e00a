package airprint

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"airprintgolang/internal/model"
)

const (
	productRecord = "product=(GPL Ghostscript)"
	urfFormat     = "image/urf"
)

// Builder turns a printer's attributes into its AirPrint descriptor.
type Builder struct {
	// DefaultPort is used when the printer URI carries no explicit port.
	DefaultPort int

	// AdminURL adds an adminurl record holding the printer URI verbatim.
	AdminURL bool

	Logger *slog.Logger
}

// Build fills tmpl for the named printer and returns it. tmpl should be a
// fresh template from NewTemplate; its existing TXT records are kept first.
func (b Builder) Build(name string, attrs model.PrinterAttributes, tmpl ServiceGroup) ServiceGroup {
	doc := tmpl.Clone()
	doc.Name.Text = "AirPrint " + name + " @ %h"

	port, rp := b.splitURI(attrs.URI)
	doc.Service.Port = port

	txt := doc.Service.TxtRecords
	txt = append(txt,
		"rp="+rp,
		"note="+attrs.Info,
		productRecord,
		"printer-state="+strconv.Itoa(attrs.State),
		fmt.Sprintf("printer-type=%#x", attrs.Type),
	)
	if attrs.ColorSupported {
		txt = append(txt, "Color=T")
	}
	if attrs.MediaDefault == model.MediaA4 {
		txt = append(txt, "PaperMax=legal-A4")
	}
	if b.AdminURL {
		txt = append(txt, "adminurl="+attrs.URI)
	}
	txt = append(txt, "pdl="+b.pdl(name, attrs))
	doc.Service.TxtRecords = txt
	return doc
}

func (b Builder) pdl(name string, attrs model.PrinterAttributes) string {
	if !attrs.HasDocumentFormats {
		b.logger().Warn("No document format supported for " + name)
		return ""
	}
	formats := FilterFormats(attrs.DocumentFormats)
	if !slices.Contains(formats, urfFormat) {
		b.logger().Warn(urfFormat + " not supported for " + name + ", may not work on iOS6")
	}
	return strings.Join(formats, ",")
}

// splitURI returns the advertised port and the rp value for uri. The path
// is taken from uri as written, so escapes are neither added nor decoded,
// and a malformed port only costs the port.
func (b Builder) splitURI(uri string) (int, string) {
	port := b.DefaultPort
	if port <= 0 {
		port = model.DefaultIPPPort
	}
	if uri == "" {
		return port, ""
	}
	if u, err := url.Parse(uri); err == nil {
		if p, err := strconv.Atoi(u.Port()); err == nil && p > 0 {
			port = p
		}
	}
	return port, uriPath(uri)
}

// uriPath cuts the scheme, authority, query and fragment off uri and
// trims the leading slashes of what is left.
func uriPath(uri string) string {
	rest := uri
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+len("://"):]
		j := strings.IndexByte(rest, '/')
		if j < 0 {
			return ""
		}
		rest = rest[j:]
	} else if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[i+1:]
	}
	return strings.TrimLeft(rest, "/")
}

func (b Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
