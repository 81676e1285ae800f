package salesforce

import (
	"fmt"
	"github.com/ellogroup/ello-golang-salesforce-soap/salesforce/soap"
)

// CallParameter is one positional entry of a remote call.
type CallParameter struct {
	Key   string
	Value any
}

// Params is the ordered parameter sequence of a remote call.
type Params []CallParameter

// Flatten returns the sequence as alternating keys and values.
func (p Params) Flatten() []any {
	flat := make([]any, 0, len(p)*2)
	for _, cp := range p {
		flat = append(flat, cp.Key, cp.Value)
	}
	return flat
}

func (p Params) soap() []soap.Param {
	out := make([]soap.Param, len(p))
	for i, cp := range p {
		out[i] = soap.Param{Name: cp.Key, Value: cp.Value}
	}
	return out
}

type arity int

const (
	single arity = iota
	// repeated consumes every remaining argument, so it is only valid last.
	repeated
)

type paramSpec struct {
	key   string
	arity arity
}

const (
	opCreate             = "create"
	opUpdate             = "update"
	opUpsert             = "upsert"
	opDelete             = "delete"
	opUndelete           = "undelete"
	opEmptyRecycleBin    = "emptyRecycleBin"
	opInvalidateSessions = "invalidateSessions"
	opLogin              = "login"
	opLogout             = "logout"
	opRetrieve           = "retrieve"
	opDescribeSObjects   = "describeSObjects"
	opDescribeGlobal     = "describeGlobal"
	opDescribeLayout     = "describeLayout"
	opDescribeTabs       = "describeTabs"
	opQuery              = "query"
	opQueryAll           = "queryAll"
	opQueryMore          = "queryMore"
	opSearch             = "search"
	opGetDeleted         = "getDeleted"
	opGetUpdated         = "getUpdated"
	opGetServerTimestamp = "getServerTimestamp"
	opGetUserInfo        = "getUserInfo"
	opResetPassword      = "resetPassword"
	opSetPassword        = "setPassword"
)

var operations = map[string][]paramSpec{
	opCreate:             {{"sObjects", repeated}},
	opUpdate:             {{"sObjects", repeated}},
	opUpsert:             {{"externalIDFieldName", single}, {"sObjects", repeated}},
	opDelete:             {{"ids", repeated}},
	opUndelete:           {{"ids", repeated}},
	opEmptyRecycleBin:    {{"ids", repeated}},
	opInvalidateSessions: {{"sessionIds", repeated}},
	opLogin:              {{"username", single}, {"password", single}},
	opLogout:             nil,
	opRetrieve:           {{"fieldList", single}, {"sObjectType", single}, {"ids", repeated}},
	opDescribeSObjects:   {{"sObjectType", repeated}},
	opDescribeGlobal:     nil,
	opDescribeLayout:     {{"sObjectType", single}, {"recordTypeIds", repeated}},
	opDescribeTabs:       nil,
	opQuery:              {{"queryString", single}},
	opQueryAll:           {{"queryString", single}},
	opQueryMore:          {{"queryLocator", single}},
	opSearch:             {{"searchString", single}},
	opGetDeleted:         {{"sObjectType", single}, {"startDate", single}, {"endDate", single}},
	opGetUpdated:         {{"sObjectType", single}, {"startDate", single}, {"endDate", single}},
	opGetServerTimestamp: nil,
	opGetUserInfo:        nil,
	opResetPassword:      {{"userId", single}},
	opSetPassword:        {{"userId", single}, {"password", single}},
}

// BuildParams builds the parameter sequence for method from call-site
// arguments. Single-valued keys take one argument each, in table order; a
// trailing repeated key takes the remaining arguments through Normalize and
// emits one pair per item.
func BuildParams(method string, args ...any) (Params, error) {
	specs, ok := operations[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, method)
	}

	params := Params{}
	rest := args
	for _, s := range specs {
		if s.arity == repeated {
			for _, item := range Normalize(rest...) {
				params = append(params, CallParameter{Key: s.key, Value: item})
			}
			return params, nil
		}
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: %s requires %s", ErrArgumentCount, method, s.key)
		}
		params = append(params, CallParameter{Key: s.key, Value: rest[0]})
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgumentCount, method, len(specs), len(args))
	}
	return params, nil
}
