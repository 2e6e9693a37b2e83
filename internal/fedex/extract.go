package fedex

import (
	"strconv"
	"time"

	"github.com/pkg/errors"

	"carrierrates/internal/calendar"
	"carrierrates/internal/rate"
	"carrierrates/internal/transit"
	"carrierrates/internal/xmlmap"
)

var deliveryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Extractor turns a successful rate reply into quotes.
type Extractor struct {
	cal calendar.Advancer
}

func NewExtractor(cal calendar.Advancer) *Extractor {
	if cal == nil {
		cal = calendar.New()
	}
	return &Extractor{cal: cal}
}

// Extract returns one quote per rate reply detail, in reply order. A reply
// with no details yields an empty slice.
func (e *Extractor) Extract(resp map[string]any, opts rate.Options) ([]rate.Quote, error) {
	details := xmlmap.List(xmlmap.Path(resp, "rate_reply.rate_reply_details"))
	quotes := make([]rate.Quote, 0, len(details))
	for i, d := range details {
		q, err := e.quote(d, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "rate reply detail %d", i)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (e *Extractor) quote(v any, opts rate.Options) (rate.Quote, error) {
	detail, ok := xmlmap.Map(v)
	if !ok {
		return rate.Quote{}, errors.Wrap(ErrMalformedRateReply, "detail is not an element")
	}
	service, _ := detail["service_type"].(string)
	if service == "" {
		return rate.Quote{}, errors.Wrap(ErrMalformedRateReply, "missing service_type")
	}
	rated, ok := xmlmap.Map(xmlmap.First(detail["rated_shipment_details"]))
	if !ok {
		return rate.Quote{}, errors.Wrap(ErrMalformedRateReply, "missing rated_shipment_details")
	}
	base, ok := xmlmap.Map(rated["shipment_rate_detail"])
	if !ok {
		return rate.Quote{}, errors.Wrap(ErrMalformedRateReply, "missing shipment_rate_detail")
	}

	q := rate.Quote{
		ServiceType:           service,
		RateType:              xmlmap.String(base, "rate_type"),
		RateZone:              xmlmap.String(base, "rate_zone"),
		TotalBillingWeight:    weightAt(base, "total_billing_weight"),
		TotalBaseCharge:       moneyAt(base, "total_base_charge"),
		TotalFreightDiscounts: moneyAt(base, "total_freight_discounts"),
		TotalNetFreight:       moneyAt(base, "total_net_freight"),
		TotalSurcharges:       moneyAt(base, "total_surcharges"),
		TotalTaxes:            moneyAt(base, "total_taxes"),
		TotalNetCharge:        moneyAt(base, "total_net_charge"),
		DeliveryTimestamp:     parseTimestamp(detail["delivery_timestamp"]),
		Detail:                base,
	}
	if q.DeliveryTimestamp == nil {
		q.DeliveryTimestamp = e.inferDelivery(detail, opts)
	}
	return q, nil
}

// inferDelivery advances the ship timestamp by the detail's transit time.
// It returns nil when either is missing or the code is not recognized.
func (e *Extractor) inferDelivery(detail map[string]any, opts rate.Options) *time.Time {
	if opts.ShipTimestamp == nil {
		return nil
	}
	code, _ := detail["transit_time"].(string)
	if code == "" {
		return nil
	}
	days, ok := transit.Days(code)
	if !ok {
		return nil
	}
	t := e.cal.Advance(*opts.ShipTimestamp, days)
	return &t
}

func parseTimestamp(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	for _, layout := range deliveryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func moneyAt(m map[string]any, key string) *rate.Money {
	v, ok := xmlmap.Map(m[key])
	if !ok {
		return nil
	}
	return &rate.Money{
		Currency: xmlmap.String(v, "currency"),
		Amount:   xmlmap.String(v, "amount"),
	}
}

func weightAt(m map[string]any, key string) *rate.Weight {
	v, ok := xmlmap.Map(m[key])
	if !ok {
		return nil
	}
	value, _ := strconv.ParseFloat(xmlmap.String(v, "value"), 64)
	return &rate.Weight{Units: xmlmap.String(v, "units"), Value: value}
}
