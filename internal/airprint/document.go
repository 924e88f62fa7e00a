package airprint

import (
	"encoding/xml"
	"io"
	"strings"
)

const serviceDoctype = `<!DOCTYPE service-group SYSTEM "avahi-service.dtd">`

// ServiceGroup is an Avahi static service descriptor with a single service.
type ServiceGroup struct {
	XMLName xml.Name    `xml:"service-group"`
	Name    ServiceName `xml:"name"`
	Service Service     `xml:"service"`
}

type ServiceName struct {
	ReplaceWildcards string `xml:"replace-wildcards,attr,omitempty"`
	Text             string `xml:",chardata"`
}

type Service struct {
	Type       string   `xml:"type"`
	Subtype    string   `xml:"subtype,omitempty"`
	Port       int      `xml:"port"`
	TxtRecords []string `xml:"txt-record"`
}

// NewTemplate returns a fresh copy of the base AirPrint descriptor. Callers
// own the result and may append to its TXT records freely.
func NewTemplate() ServiceGroup {
	return ServiceGroup{
		Name: ServiceName{ReplaceWildcards: "yes"},
		Service: Service{
			Type:    "_ipp._tcp",
			Subtype: "_universal._sub._ipp._tcp",
			Port:    631,
			TxtRecords: []string{
				"txtvers=1",
				"qtotal=1",
				"Transparent=T",
				"URF=none",
			},
		},
	}
}

// Clone returns a deep copy of g.
func (g ServiceGroup) Clone() ServiceGroup {
	out := g
	out.Service.TxtRecords = append([]string(nil), g.Service.TxtRecords...)
	return out
}

// TxtValue returns the value of the first TXT record with the given key.
func (g ServiceGroup) TxtValue(key string) (string, bool) {
	for _, rec := range g.Service.TxtRecords {
		k, v, found := strings.Cut(rec, "=")
		if found && k == key {
			return v, true
		}
	}
	return "", false
}

// Render writes g as a complete descriptor file: XML declaration, DOCTYPE
// and the indented document.
func Render(w io.Writer, g ServiceGroup) error {
	if _, err := io.WriteString(w, xml.Header+serviceDoctype+"\n"); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(g); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Parse reads a descriptor produced by Render.
func Parse(r io.Reader) (ServiceGroup, error) {
	var g ServiceGroup
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return ServiceGroup{}, err
	}
	return g, nil
}
