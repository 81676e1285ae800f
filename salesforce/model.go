package salesforce

// SObject is a generic Salesforce record keyed by field name. The "type"
// entry names the object type, eg. Account.
// Records are passed to the remote binding as-is; the SOAP codec writes
// the type discriminator ahead of the other fields.
type SObject map[string]any

// NewSObject creates a record of the given type with the given fields.
func NewSObject(typ string, fields map[string]any) SObject {
	o := make(SObject, len(fields)+1)
	for k, v := range fields {
		o[k] = v
	}
	o["type"] = typ
	return o
}

// Type returns the record's type discriminator, or "" when unset.
func (o SObject) Type() string {
	t, _ := o["type"].(string)
	return t
}

// loginResult is the part of a login response the binding needs.
type loginResult struct {
	SessionID string
	ServerURL string
}

func parseLoginResult(v any) (loginResult, bool) {
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	m, ok := v.(map[string]any)
	if !ok {
		return loginResult{}, false
	}
	r := loginResult{
		SessionID: stringField(m, "sessionId"),
		ServerURL: stringField(m, "serverUrl"),
	}
	return r, r.SessionID != "" && r.ServerURL != ""
}
