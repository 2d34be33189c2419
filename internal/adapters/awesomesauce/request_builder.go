package awesomesauce

import (
	"encoding/xml"
	"fmt"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	"github.com/kevin07696/awesomesauce-gateway/pkg/encoding"
	"github.com/shopspring/decimal"
)

// action is the verb sent in the <action> element
type action string

const (
	actionPurchase  action = "purch"
	actionAuthorize action = "auth"
	actionCapture   action = "capture"
	actionVoid      action = "cancel"
)

// xmlField is one leaf element of a request, written in slice order
type xmlField struct {
	Name  string
	Value string
}

// buildRequest renders the request document:
//
//	<request>
//	  <merchant>LOGIN</merchant>
//	  <secret>PASSWORD</secret>
//	  <action>purch</action>
//	  ...fields
//	</request>
func buildRequest(creds domain.Credentials, act action, fields []xmlField) ([]byte, error) {
	buf := encoding.GetBuffer()
	defer encoding.PutBuffer(buf)
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "request"}}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("failed to open request element: %w", err)
	}

	all := make([]xmlField, 0, len(fields)+3)
	all = append(all, authFields(creds)...)
	all = append(all, xmlField{Name: "action", Value: string(act)})
	all = append(all, fields...)

	for _, f := range all {
		if err := enc.EncodeElement(f.Value, xml.StartElement{Name: xml.Name{Local: f.Name}}); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.Name, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("failed to close request element: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush request: %w", err)
	}

	buf.WriteByte('\n')
	return encoding.Detach(buf), nil
}

func authFields(creds domain.Credentials) []xmlField {
	return []xmlField{
		{Name: "merchant", Value: creds.Login},
		{Name: "secret", Value: creds.Password},
	}
}

func invoiceFields(amount int64) []xmlField {
	return []xmlField{{Name: "amount", Value: formatAmount(amount)}}
}

// paymentFields passes card data through untouched, the gateway validates it
func paymentFields(card *domain.CreditCard) []xmlField {
	if card == nil {
		card = &domain.CreditCard{}
	}
	return []xmlField{
		{Name: "name", Value: card.Name},
		{Name: "number", Value: card.Number},
		{Name: "cv2", Value: card.VerificationValue},
		{Name: "exp", Value: expDate(card)},
	}
}

func referenceFields(authorization string) []xmlField {
	return []xmlField{{Name: "ref", Value: authorization}}
}

// formatAmount converts minor units to a decimal string with two fraction digits (10000 -> "100.00")
func formatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// expDate renders MMYYYY (month 9, year 2017 -> "092017")
func expDate(card *domain.CreditCard) string {
	return fmt.Sprintf("%02d%04d", card.Month, card.Year)
}
