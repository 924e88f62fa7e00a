package cupsclient

import (
	"context"
	"net/http"
	"testing"

	goipp "github.com/OpenPrinting/goipp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airprintgolang/internal/model"
)

func mimeAttr(name string, values ...string) goipp.Attribute {
	vals := make([]goipp.Value, 0, len(values))
	for _, v := range values {
		vals = append(vals, goipp.String(v))
	}
	return goipp.MakeAttr(name, goipp.TagMimeType, vals[0], vals[1:]...)
}

func TestListPrintersDecodesAttributes(t *testing.T) {
	isolateEnv(t)
	var gotUser string
	var gotRequested []string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request, req *goipp.Message) {
		gotUser = attrString(req.Operation, "requesting-user-name")
		for _, a := range req.Operation {
			if a.Name == "requested-attributes" {
				for _, v := range a.Values {
					gotRequested = append(gotRequested, v.V.String())
				}
			}
		}

		var office goipp.Attributes
		office.Add(goipp.MakeAttribute("printer-name", goipp.TagName, goipp.String("Office")))
		office.Add(goipp.MakeAttribute("printer-is-shared", goipp.TagBoolean, goipp.Boolean(true)))
		office.Add(goipp.MakeAttribute("printer-uri-supported", goipp.TagURI, goipp.String("ipp://cups:631/printers/Office")))
		office.Add(goipp.MakeAttribute("printer-info", goipp.TagText, goipp.String("Office Laser")))
		office.Add(goipp.MakeAttribute("printer-state", goipp.TagEnum, goipp.Integer(3)))
		office.Add(goipp.MakeAttribute("printer-type", goipp.TagEnum, goipp.Integer(21)))
		office.Add(goipp.MakeAttribute("color-supported", goipp.TagBoolean, goipp.Boolean(true)))
		office.Add(goipp.MakeAttribute("media-default", goipp.TagKeyword, goipp.String(model.MediaA4)))
		office.Add(mimeAttr("document-format-supported", "application/pdf", "image/urf"))

		var lab goipp.Attributes
		lab.Add(goipp.MakeAttribute("printer-name", goipp.TagName, goipp.String("Lab")))
		lab.Add(goipp.MakeAttribute("printer-is-shared", goipp.TagBoolean, goipp.Boolean(false)))

		var nameless goipp.Attributes
		nameless.Add(goipp.MakeAttribute("printer-info", goipp.TagText, goipp.String("ghost")))

		groups := goipp.Groups{
			{Tag: goipp.TagOperationGroup, Attrs: goipp.Attributes{
				goipp.MakeAttribute("attributes-charset", goipp.TagCharset, goipp.String("utf-8")),
			}},
			{Tag: goipp.TagPrinterGroup, Attrs: office},
			{Tag: goipp.TagPrinterGroup, Attrs: lab},
			{Tag: goipp.TagPrinterGroup, Attrs: nameless},
		}
		writeResponse(w, goipp.NewMessageWithGroups(req.Version, goipp.Code(goipp.StatusOk), req.RequestID, groups))
	})

	printers, err := client.ListPrinters(context.Background())
	require.NoError(t, err)
	require.Len(t, printers, 2)

	assert.Equal(t, "alice", gotUser)
	assert.ElementsMatch(t, printerRequestedAttributes, gotRequested)

	assert.Equal(t, model.PrinterAttributes{
		Name:               "Office",
		Shared:             true,
		URI:                "ipp://cups:631/printers/Office",
		Info:               "Office Laser",
		State:              3,
		Type:               21,
		ColorSupported:     true,
		MediaDefault:       model.MediaA4,
		DocumentFormats:    []string{"application/pdf", "image/urf"},
		HasDocumentFormats: true,
	}, printers[0])
	assert.Equal(t, model.PrinterAttributes{Name: "Lab"}, printers[1])
}

func TestListPrintersNotFoundIsEmpty(t *testing.T) {
	isolateEnv(t)
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request, req *goipp.Message) {
		writeResponse(w, goipp.NewResponse(req.Version, goipp.StatusErrorNotFound, req.RequestID))
	})

	printers, err := client.ListPrinters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, printers)
}

func TestListPrintersErrorStatus(t *testing.T) {
	isolateEnv(t)
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request, req *goipp.Message) {
		writeResponse(w, goipp.NewResponse(req.Version, goipp.StatusErrorForbidden, req.RequestID))
	})

	_, err := client.ListPrinters(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUPS-Get-Printers")
}

func TestListPrintersConnectionError(t *testing.T) {
	isolateEnv(t)
	client := NewFromConfig(WithServer("127.0.0.1:1"))

	_, err := client.ListPrinters(context.Background())
	require.Error(t, err)
}
