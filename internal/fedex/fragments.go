package fedex

import (
	"strings"

	"carrierrates/internal/rate"
)

// Fragments emits the request sub-blocks that the rate request shares with
// the carrier's other web services.
type Fragments interface {
	WebAuthentication(w *Writer, c Credentials)
	ClientDetail(w *Writer, c Credentials)
	Version(w *Writer, svc ServiceID)
	Shipper(w *Writer, p rate.Party)
	Recipient(w *Writer, p rate.Party)
	ShippingChargesPayment(w *Writer, s rate.Shipment, c Credentials)
	CustomsClearance(w *Writer, cc rate.CustomsClearance)
	Packages(w *Writer, pkgs []rate.Package)
}

// DefaultFragments writes the v10 schema shapes.
type DefaultFragments struct{}

func (DefaultFragments) WebAuthentication(w *Writer, c Credentials) {
	w.Block("WebAuthenticationDetail", func() {
		w.Block("UserCredential", func() {
			w.Element("Key", c.Key)
			w.Element("Password", c.Password)
		})
	})
}

func (DefaultFragments) ClientDetail(w *Writer, c Credentials) {
	w.Block("ClientDetail", func() {
		w.Element("AccountNumber", c.AccountNumber)
		w.Element("MeterNumber", c.MeterNumber)
		w.Block("Localization", func() {
			w.Element("LanguageCode", "en")
			w.Element("LocaleCode", "us")
		})
	})
}

func (DefaultFragments) Version(w *Writer, svc ServiceID) {
	w.Block("Version", func() {
		w.Element("ServiceId", svc.ID)
		w.Element("Major", svc.Major)
		w.Element("Intermediate", 0)
		w.Element("Minor", 0)
	})
}

func (DefaultFragments) Shipper(w *Writer, p rate.Party) {
	w.Block("Shipper", func() {
		contact(w, p.Contact)
		address(w, p.Address, false)
	})
}

func (DefaultFragments) Recipient(w *Writer, p rate.Party) {
	w.Block("Recipient", func() {
		contact(w, p.Contact)
		address(w, p.Address, true)
	})
}

func (DefaultFragments) ShippingChargesPayment(w *Writer, s rate.Shipment, c Credentials) {
	paymentType := s.PaymentType
	if paymentType == "" {
		paymentType = "SENDER"
	}
	w.Block("ShippingChargesPayment", func() {
		w.Element("PaymentType", paymentType)
		w.Block("Payor", func() {
			w.Block("ResponsibleParty", func() {
				w.Element("AccountNumber", c.AccountNumber)
				contact(w, s.Shipper.Contact)
			})
		})
	})
}

func (DefaultFragments) CustomsClearance(w *Writer, cc rate.CustomsClearance) {
	w.Block("CustomsClearanceDetail", func() {
		if cc.DutiesPaymentType != "" {
			w.Block("DutiesPayment", func() {
				w.Element("PaymentType", cc.DutiesPaymentType)
				if cc.DutiesPayor != "" {
					w.Block("Payor", func() {
						w.Block("ResponsibleParty", func() {
							w.Element("AccountNumber", cc.DutiesPayor)
						})
					})
				}
			})
		}
		if cc.DocumentContent != "" {
			w.Element("DocumentContent", cc.DocumentContent)
		}
		money(w, "CustomsValue", cc.CustomsValue)
		for _, c := range cc.Commodities {
			w.Block("Commodities", func() {
				w.Element("Name", c.Name)
				w.Element("NumberOfPieces", c.NumberOfPieces)
				w.Element("Description", c.Description)
				w.Element("CountryOfManufacture", c.CountryOfManufacture)
				if c.HarmonizedCode != "" {
					w.Element("HarmonizedCode", c.HarmonizedCode)
				}
				weight(w, c.Weight)
				w.Element("Quantity", c.Quantity)
				w.Element("QuantityUnits", c.QuantityUnits)
				money(w, "UnitPrice", c.UnitPrice)
				money(w, "CustomsValue", c.CustomsValue)
			})
		}
	})
}

func (DefaultFragments) Packages(w *Writer, pkgs []rate.Package) {
	w.Element("PackageCount", len(pkgs))
	for i, p := range pkgs {
		w.Block("RequestedPackageLineItems", func() {
			w.Element("SequenceNumber", i+1)
			w.Element("GroupPackageCount", 1)
			weight(w, p.Weight)
			if d := p.Dimensions; d != nil {
				w.Block("Dimensions", func() {
					w.Element("Length", d.Length)
					w.Element("Width", d.Width)
					w.Element("Height", d.Height)
					w.Element("Units", strings.ToUpper(d.Units))
				})
			}
		})
	}
}

func contact(w *Writer, c rate.Contact) {
	w.Block("Contact", func() {
		w.Element("PersonName", c.PersonName)
		w.Element("CompanyName", c.CompanyName)
		w.Element("PhoneNumber", c.PhoneNumber)
	})
}

// The schema allows at most two street lines.
func address(w *Writer, a rate.Address, withResidential bool) {
	w.Block("Address", func() {
		lines := a.StreetLines
		if len(lines) > 2 {
			lines = lines[:2]
		}
		for _, l := range lines {
			w.Element("StreetLines", l)
		}
		w.Element("City", a.City)
		w.Element("StateOrProvinceCode", a.State)
		w.Element("PostalCode", a.PostalCode)
		w.Element("CountryCode", a.Country)
		if withResidential {
			w.Element("Residential", a.Residential)
		}
	})
}

func weight(w *Writer, wt rate.Weight) {
	w.Block("Weight", func() {
		w.Element("Units", strings.ToUpper(wt.Units))
		w.Element("Value", wt.Value)
	})
}

func money(w *Writer, name string, m rate.Money) {
	if m.Currency == "" && m.Amount == "" {
		return
	}
	w.Block(name, func() {
		w.Element("Currency", m.Currency)
		w.Element("Amount", m.Amount)
	})
}
