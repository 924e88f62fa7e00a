package cupsclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goipp "github.com/OpenPrinting/goipp"

	"airprintgolang/internal/model"
)

var printerRequestedAttributes = []string{
	"printer-name",
	"printer-is-shared",
	"printer-uri-supported",
	"printer-info",
	"printer-state",
	"printer-type",
	"color-supported",
	"media-default",
	"document-format-supported",
}

// ListPrinters returns every printer queue the server reports, in server
// order. A server without queues answers not-found; that is an empty list.
func (c *Client) ListPrinters(ctx context.Context) ([]model.PrinterAttributes, error) {
	req := goipp.NewRequest(goipp.DefaultVersion, goipp.OpCupsGetPrinters, uint32(time.Now().UnixNano()))
	req.Operation.Add(goipp.MakeAttribute("attributes-charset", goipp.TagCharset, goipp.String("utf-8")))
	req.Operation.Add(goipp.MakeAttribute("attributes-natural-language", goipp.TagLanguage, goipp.String("en-US")))
	if c.User != "" {
		req.Operation.Add(goipp.MakeAttribute("requesting-user-name", goipp.TagName, goipp.String(c.User)))
	}
	values := make([]goipp.Value, 0, len(printerRequestedAttributes))
	for _, name := range printerRequestedAttributes {
		values = append(values, goipp.String(name))
	}
	req.Operation.Add(goipp.MakeAttr("requested-attributes", goipp.TagKeyword, values[0], values[1:]...))

	resp, err := c.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	status := goipp.Status(resp.Code)
	if status == goipp.StatusErrorNotFound {
		return nil, nil
	}
	if status > goipp.StatusOkConflicting {
		return nil, fmt.Errorf("CUPS-Get-Printers: %s", status)
	}

	var printers []model.PrinterAttributes
	for _, g := range resp.Groups {
		if g.Tag != goipp.TagPrinterGroup {
			continue
		}
		p := decodePrinter(g.Attrs)
		if p.Name == "" {
			continue
		}
		printers = append(printers, p)
	}
	return printers, nil
}

func decodePrinter(attrs goipp.Attributes) model.PrinterAttributes {
	var p model.PrinterAttributes
	for _, a := range attrs {
		if len(a.Values) == 0 {
			continue
		}
		switch a.Name {
		case "printer-name":
			p.Name = a.Values[0].V.String()
		case "printer-is-shared":
			p.Shared = valueBool(a.Values[0].V)
		case "printer-uri-supported":
			p.URI = a.Values[0].V.String()
		case "printer-info":
			p.Info = a.Values[0].V.String()
		case "printer-state":
			p.State = valueInt(a.Values[0].V)
		case "printer-type":
			p.Type = valueInt(a.Values[0].V)
		case "color-supported":
			p.ColorSupported = valueBool(a.Values[0].V)
		case "media-default":
			p.MediaDefault = a.Values[0].V.String()
		case "document-format-supported":
			p.HasDocumentFormats = true
			for _, v := range a.Values {
				p.DocumentFormats = append(p.DocumentFormats, v.V.String())
			}
		}
	}
	return p
}

func valueBool(v goipp.Value) bool {
	if b, ok := v.(goipp.Boolean); ok {
		return bool(b)
	}
	b, _ := parseBool(v.String())
	return b
}

func valueInt(v goipp.Value) int {
	if n, ok := v.(goipp.Integer); ok {
		return int(n)
	}
	n, _ := strconv.Atoi(v.String())
	return n
}
