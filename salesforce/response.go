package salesforce

// Response is the decoded body of a remote call. It holds either a "Fault"
// entry or a "<method>Response" entry.
type Response map[string]any

// outcome is a Response resolved into exactly one of fault or result.
type outcome struct {
	fault  *FaultError
	result any
}

func resolveResponse(method string, r Response) outcome {
	if f, ok := r["Fault"]; ok && f != nil {
		fe := &FaultError{}
		if fm, ok := f.(map[string]any); ok {
			fe.Code = stringField(fm, "faultcode")
			fe.Message = stringField(fm, "faultstring")
		}
		return outcome{fault: fe}
	}

	if body, ok := r[method+"Response"].(map[string]any); ok {
		return outcome{result: body["result"]}
	}
	return outcome{result: r["result"]}
}

// unwrap applies the wrapping rule: with wrap set, a result that is not
// already a collection becomes a one-element []any and a missing result
// becomes an empty one. Collections are returned untouched.
func unwrap(result any, wrap bool) any {
	if !wrap {
		return result
	}
	if result == nil {
		return []any{}
	}
	if _, ok := expand(result); ok {
		return result
	}
	return []any{result}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
