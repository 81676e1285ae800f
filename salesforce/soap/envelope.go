package soap

import (
	"encoding/xml"
)

const (
	NsSoapEnv  = "http://schemas.xmlsoap.org/soap/envelope/"
	NsPartner  = "urn:partner.soap.sforce.com"
	NsSObject  = "urn:sobject.partner.soap.sforce.com"
	NsInstance = "http://www.w3.org/2001/XMLSchema-instance"
)

// Envelope is a SOAP 1.1 envelope addressed to the Salesforce partner API.
type Envelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`

	NsSoap    string `xml:"xmlns:soapenv,attr"`
	NsPartner string `xml:"xmlns:urn,attr"`
	NsSObject string `xml:"xmlns:urn1,attr"`
	NsXsi     string `xml:"xmlns:xsi,attr"`

	Header *Header `xml:"soapenv:Header,omitempty"`
	Body   *Body   `xml:"soapenv:Body"`
}

type Header struct {
	SessionHeader *SessionHeader `xml:"urn:SessionHeader,omitempty"`
}

type SessionHeader struct {
	SessionID string `xml:"urn:sessionId"`
}

type Body struct {
	Content []byte `xml:",innerxml"`
}

func NewEnvelope() *Envelope {
	return &Envelope{
		NsSoap:    NsSoapEnv,
		NsPartner: NsPartner,
		NsSObject: NsSObject,
		NsXsi:     NsInstance,
		Body:      &Body{},
	}
}

// WithSession adds a SessionHeader carrying the given session id.
// An empty id leaves the envelope without a header.
func (e *Envelope) WithSession(sessionID string) *Envelope {
	if sessionID == "" {
		e.Header = nil
		return e
	}
	e.Header = &Header{SessionHeader: &SessionHeader{SessionID: sessionID}}
	return e
}

func (e *Envelope) WithBody(content []byte) *Envelope {
	e.Body.Content = content
	return e
}

// Marshal serializes the envelope, including the XML declaration.
func (e *Envelope) Marshal() ([]byte, error) {
	b, err := xml.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), b...), nil
}
