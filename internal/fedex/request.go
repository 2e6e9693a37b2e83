package fedex

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"carrierrates/internal/rate"
)

// ShipTimestampLayout matches the carrier's xs:dateTime with a numeric offset.
const ShipTimestampLayout = "2006-01-02T15:04:05-07:00"

const rateRequestTypes = "ACCOUNT"

// Credentials authenticate the request and identify the billed account.
type Credentials struct {
	Key           string
	Password      string
	AccountNumber string
	MeterNumber   string
}

// ServiceID names a versioned carrier web service.
type ServiceID struct {
	ID     string
	Name   string
	Domain string
	Major  int
}

// RateService is the rate service version this package speaks.
var RateService = ServiceID{ID: "crs", Name: "rate", Domain: "fedex.com", Major: 10}

// Namespace is the schema namespace of the service's request documents.
func (s ServiceID) Namespace() string {
	return fmt.Sprintf("http://%s/ws/%s/v%d", s.Domain, s.Name, s.Major)
}

// RequestBuilder serializes rate requests. It holds no per-request state.
type RequestBuilder struct {
	creds Credentials
	svc   ServiceID
	frags Fragments
}

func NewRequestBuilder(creds Credentials, svc ServiceID, frags Fragments) *RequestBuilder {
	if frags == nil {
		frags = DefaultFragments{}
	}
	return &RequestBuilder{creds: creds, svc: svc, frags: frags}
}

// Build returns the RateRequest document for s and the options with
// drop-off and packaging defaults filled in. opts itself is not modified.
func (b *RequestBuilder) Build(s rate.Shipment, opts rate.Options) ([]byte, rate.Options, error) {
	resolved := opts.Resolved()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartNS(b.svc.Namespace(), "RateRequest")
	b.frags.WebAuthentication(w, b.creds)
	b.frags.ClientDetail(w, b.creds)
	b.frags.Version(w, b.svc)
	w.Element("ReturnTransitAndCommit", true)
	b.requestedShipment(w, s, resolved)
	w.End()
	if err := w.Err(); err != nil {
		return nil, resolved, errors.Wrap(err, "build rate request")
	}
	return buf.Bytes(), resolved, nil
}

func (b *RequestBuilder) requestedShipment(w *Writer, s rate.Shipment, opts rate.Options) {
	w.Block("RequestedShipment", func() {
		if opts.ShipTimestamp != nil {
			w.Element("ShipTimestamp", opts.ShipTimestamp.Format(ShipTimestampLayout))
		}
		w.Element("DropoffType", opts.DropoffType)
		if opts.ServiceType != "" {
			w.Element("ServiceType", opts.ServiceType)
		}
		w.Element("PackagingType", opts.PackagingType)
		b.frags.Shipper(w, s.Shipper)
		b.frags.Recipient(w, s.Recipient)
		b.frags.ShippingChargesPayment(w, s, b.creds)
		if s.Customs != nil {
			b.frags.CustomsClearance(w, *s.Customs)
		}
		w.Element("RateRequestTypes", rateRequestTypes)
		b.frags.Packages(w, s.Packages)
	})
}
