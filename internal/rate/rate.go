package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carrierrates/internal/calendar"
	"carrierrates/internal/transit"
)

const (
	DefaultDropoffType   = "REGULAR_PICKUP"
	DefaultPackagingType = "YOUR_PACKAGING"
)

// Estimator gives a rough single-figure price without a carrier call.
type Estimator interface {
	Estimate(fromCountry, toCountry, carrierCode string, weightOz float64) (currency string, amount float64, carrier string)
}

// Provider quotes a shipment with one carrier.
type Provider interface {
	Rates(ctx context.Context, s Shipment, opts Options) ([]Quote, error)
}

type Contact struct {
	PersonName  string `json:"person_name"`
	CompanyName string `json:"company_name"`
	PhoneNumber string `json:"phone_number"`
}

type Address struct {
	StreetLines []string `json:"street_lines"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	PostalCode  string   `json:"postal_code"`
	Country     string   `json:"country"`
	Residential bool     `json:"residential"`
}

type Party struct {
	Contact Contact `json:"contact"`
	Address Address `json:"address"`
}

type Weight struct {
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

// Ounces converts w to ounces. Unknown units are treated as pounds.
func (w Weight) Ounces() float64 {
	switch strings.ToUpper(w.Units) {
	case "OZ":
		return w.Value
	case "KG":
		return w.Value * 35.27396
	default:
		return w.Value * 16
	}
}

type Dimensions struct {
	Length int    `json:"length"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Units  string `json:"units"`
}

type Package struct {
	Weight     Weight      `json:"weight"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
}

// Money keeps the carrier's amount text as received.
type Money struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type Commodity struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	CountryOfManufacture string `json:"country_of_manufacture"`
	HarmonizedCode       string `json:"harmonized_code"`
	NumberOfPieces       int    `json:"number_of_pieces"`
	Quantity             int    `json:"quantity"`
	QuantityUnits        string `json:"quantity_units"`
	Weight               Weight `json:"weight"`
	UnitPrice            Money  `json:"unit_price"`
	CustomsValue         Money  `json:"customs_value"`
}

// CustomsClearance is only sent for international shipments.
type CustomsClearance struct {
	DutiesPaymentType string      `json:"duties_payment_type"`
	DutiesPayor       string      `json:"duties_payor_account"`
	DocumentContent   string      `json:"document_content"`
	CustomsValue      Money       `json:"customs_value"`
	Commodities       []Commodity `json:"commodities"`
}

type Shipment struct {
	Shipper     Party             `json:"shipper"`
	Recipient   Party             `json:"recipient"`
	Packages    []Package         `json:"packages"`
	PaymentType string            `json:"payment_type"`
	Customs     *CustomsClearance `json:"customs_clearance,omitempty"`
}

// WeightOz is the total package weight in ounces.
func (s Shipment) WeightOz() float64 {
	var total float64
	for _, p := range s.Packages {
		total += p.Weight.Ounces()
	}
	return total
}

// Options are the per-request shipping options.
type Options struct {
	ShipTimestamp *time.Time `json:"ship_timestamp,omitempty"`
	DropoffType   string     `json:"drop_off_type,omitempty"`
	ServiceType   string     `json:"service_type,omitempty"`
	PackagingType string     `json:"packaging_type,omitempty"`
}

// Resolved returns a copy of o with drop-off and packaging defaults applied.
func (o Options) Resolved() Options {
	if o.DropoffType == "" {
		o.DropoffType = DefaultDropoffType
	}
	if o.PackagingType == "" {
		o.PackagingType = DefaultPackagingType
	}
	return o
}

// Quote is one service's price and delivery offer.
type Quote struct {
	ServiceType           string         `json:"service_type"`
	RateType              string         `json:"rate_type,omitempty"`
	RateZone              string         `json:"rate_zone,omitempty"`
	TotalBillingWeight    *Weight        `json:"total_billing_weight,omitempty"`
	TotalBaseCharge       *Money         `json:"total_base_charge,omitempty"`
	TotalFreightDiscounts *Money         `json:"total_freight_discounts,omitempty"`
	TotalNetFreight       *Money         `json:"total_net_freight,omitempty"`
	TotalSurcharges       *Money         `json:"total_surcharges,omitempty"`
	TotalTaxes            *Money         `json:"total_taxes,omitempty"`
	TotalNetCharge        *Money         `json:"total_net_charge,omitempty"`
	DeliveryTimestamp     *time.Time     `json:"delivery_timestamp,omitempty"`
	Detail                map[string]any `json:"detail,omitempty"`
}

// Dummy prices shipments with a fixed heuristic and no carrier call.
type Dummy struct {
	cal calendar.Advancer
}

func NewDummy(cal calendar.Advancer) *Dummy {
	if cal == nil {
		cal = calendar.New()
	}
	return &Dummy{cal: cal}
}

func (d *Dummy) Estimate(fromCountry, toCountry, carrierCode string, weightOz float64) (string, float64, string) {
	amount := 5.0 + weightOz*0.5
	if !strings.EqualFold(fromCountry, toCountry) {
		amount += 3.0
	}
	if strings.EqualFold(carrierCode, "dhl") {
		amount += 2.0
	}
	return "USD", amount, carrierCode
}

func (d *Dummy) Rates(_ context.Context, s Shipment, opts Options) ([]Quote, error) {
	from, to := s.Shipper.Address.Country, s.Recipient.Address.Country
	service := opts.ServiceType
	if service == "" {
		service = "STANDARD"
	}
	currency, amount, _ := d.Estimate(from, to, "", s.WeightOz())
	q := Quote{
		ServiceType:    service,
		RateType:       "DUMMY",
		TotalNetCharge: &Money{Currency: currency, Amount: fmt.Sprintf("%.2f", amount)},
	}
	// Domestic three days, international five.
	code := transit.Code(3)
	if !strings.EqualFold(from, to) {
		code = transit.Code(5)
	}
	if days, ok := transit.Days(code); ok && opts.ShipTimestamp != nil {
		ts := d.cal.Advance(*opts.ShipTimestamp, days)
		q.DeliveryTimestamp = &ts
	}
	return []Quote{q}, nil
}

// Registry resolves providers by name.
type Registry struct {
	providers map[string]Provider
	def       string
}

// NewRegistry returns a Registry whose empty-name lookups resolve to def.
func NewRegistry(def string) *Registry {
	return &Registry{providers: map[string]Provider{}, def: normalizeName(def)}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[normalizeName(name)] = p
}

// ByName returns the named provider. An empty name selects the default.
func (r *Registry) ByName(name string) (Provider, bool) {
	n := normalizeName(name)
	if n == "" {
		n = r.def
	}
	p, ok := r.providers[n]
	return p, ok
}

// Default is the name used for empty lookups.
func (r *Registry) Default() string { return r.def }

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
