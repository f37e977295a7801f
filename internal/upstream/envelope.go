package upstream

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
)

// serviceEnvelope is the XML error document the data portal emits from its
// JSON endpoints when a request fails at the gateway (bad key, quota, ...).
type serviceEnvelope struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// DecodeJSON unmarshals a provider body into v. When the body is not JSON it
// retries against the XML service envelope and surfaces the embedded result
// code as a typed Error; anything else is ErrBadPayload.
func DecodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err == nil {
		return nil
	}

	var env serviceEnvelope
	if err := xml.Unmarshal(body, &env); err == nil && env.Header.ReturnReasonCode != "" {
		msg := env.Header.ReturnAuthMsg
		if msg == "" {
			msg = env.Header.ErrMsg
		}
		return NewError(env.Header.ReturnReasonCode, msg)
	}

	return fmt.Errorf("%w: body is neither JSON nor a service envelope", ErrBadPayload)
}
