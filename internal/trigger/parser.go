package trigger

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedDocument is returned for any input that cannot be decoded into a
// TriggerPoint: unparsable text, wrongly typed values or missing required
// elements. Callers should not depend on the wrapped detail.
var ErrMalformedDocument = errors.New("malformed trigger point document")

// xmlTriggerPoint mirrors the wire layout. Pointers distinguish absent
// elements from zero values so required fields can be enforced after decoding.
type xmlTriggerPoint struct {
	CNF  *uint8   `xml:"ConditionTypeCNF"`
	DNF  *uint8   `xml:"ConditionTypeDNF"`
	SPTs []xmlSPT `xml:"SPT"`
}

type xmlSPT struct {
	Negated     *xmlUint8     `xml:"ConditionNegated"`
	Group       *xmlUint8     `xml:"Group"`
	Method      *string       `xml:"Method"`
	Extension   *string       `xml:"Extension"`
	SessionCase *xmlUint8     `xml:"SessionCase"`
	RequestURI  *string       `xml:"RequestURI"`
	SIPHeader   *xmlSIPHeader `xml:"SIPHeader"`
}

type xmlSIPHeader struct {
	Header  *string `xml:"Header"`
	Content *string `xml:"Content"`
}

// xmlUint8 is an SPT number. Unlike a plain uint8 field it rejects an element
// with no text instead of decoding it as 0.
type xmlUint8 uint8

func (n *xmlUint8) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var text string
	if err := d.DecodeElement(&text, &start); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty %s", start.Name.Local)
	}
	v, err := strconv.ParseUint(text, 10, 8)
	if err != nil {
		return fmt.Errorf("%s: %w", start.Name.Local, err)
	}
	*n = xmlUint8(v)
	return nil
}

func (n *xmlUint8) value() *uint8 {
	if n == nil {
		return nil
	}
	v := uint8(*n)
	return &v
}

// Parse decodes a trigger-point document. It is a pure function of its input.
func Parse(text string) (*TriggerPoint, error) {
	var raw xmlTriggerPoint
	if err := xml.NewDecoder(strings.NewReader(text)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	tp := &TriggerPoint{
		CNF:        raw.CNF,
		DNF:        raw.DNF,
		Conditions: make([]SPT, 0, len(raw.SPTs)),
	}
	for i, s := range raw.SPTs {
		spt, err := s.convert()
		if err != nil {
			return nil, fmt.Errorf("%w: SPT[%d] %v", ErrMalformedDocument, i, err)
		}
		tp.Conditions = append(tp.Conditions, spt)
	}
	return tp, nil
}

func (s xmlSPT) convert() (SPT, error) {
	if s.Group == nil {
		return SPT{}, errors.New("missing Group")
	}

	spt := SPT{
		Group:      uint8(*s.Group),
		Negated:    s.Negated.value(),
		Method:     s.Method,
		Extension:  s.Extension,
		RequestURI: s.RequestURI,
	}
	if s.SessionCase != nil {
		sc := SessionCase(*s.SessionCase)
		spt.SessionCase = &sc
	}
	if s.SIPHeader != nil {
		if s.SIPHeader.Header == nil {
			return SPT{}, errors.New("SIPHeader missing Header")
		}
		if s.SIPHeader.Content == nil {
			return SPT{}, errors.New("SIPHeader missing Content")
		}
		spt.SIPHeader = &SIPHeader{Header: *s.SIPHeader.Header, Content: *s.SIPHeader.Content}
	}
	return spt, nil
}
