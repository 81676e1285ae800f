// Package soap encodes Salesforce partner API calls into SOAP 1.1 envelopes
// and decodes response envelopes into generic maps.
package soap
