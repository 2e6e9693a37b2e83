package fedex

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Writer emits XML elements for request fragments. The first encoding error
// is kept and every later call becomes a no-op; check Err once at the end.
type Writer struct {
	enc  *xml.Encoder
	open []xml.Name
	err  error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: xml.NewEncoder(w)}
}

func (w *Writer) token(t xml.Token) {
	if w.err != nil {
		return
	}
	w.err = w.enc.EncodeToken(t)
}

// StartNS opens an element that declares ns as its default namespace.
func (w *Writer) StartNS(ns, name string) {
	n := xml.Name{Space: ns, Local: name}
	w.open = append(w.open, n)
	w.token(xml.StartElement{Name: n})
}

func (w *Writer) Start(name string) { w.StartNS("", name) }

// End closes the innermost open element.
func (w *Writer) End() {
	if len(w.open) == 0 {
		if w.err == nil {
			w.err = errors.New("xml writer: End without Start")
		}
		return
	}
	n := w.open[len(w.open)-1]
	w.open = w.open[:len(w.open)-1]
	w.token(xml.EndElement{Name: n})
}

// Block writes name around the elements emitted by fn.
func (w *Writer) Block(name string, fn func()) {
	w.Start(name)
	fn()
	w.End()
}

// Element writes a leaf element holding value's text form.
func (w *Writer) Element(name string, value any) {
	w.Start(name)
	w.token(xml.CharData(text(value)))
	w.End()
}

// Err flushes the encoder and reports the first error seen.
func (w *Writer) Err() error {
	if w.err == nil && len(w.open) != 0 {
		w.err = errors.Errorf("xml writer: %d unclosed element(s)", len(w.open))
	}
	if w.err == nil {
		w.err = w.enc.Flush()
	}
	return w.err
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
