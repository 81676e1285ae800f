package salesforce

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestBuildParams(t *testing.T) {
	sObject := SObject{"type": "Account", "firstName": "Brandon", "lastName": "Tilley"}
	sObject2 := SObject{"type": "Account", "firstName": "John", "lastName": "Doe"}
	start := time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name    string
		method  string
		args    []any
		want    []any
		wantErr assert.ErrorAssertionFunc
	}{
		{
			name:    "create one sObject",
			method:  "create",
			args:    []any{sObject},
			want:    []any{"sObjects", sObject},
			wantErr: assert.NoError,
		},
		{
			name:    "create sObjects passed separately",
			method:  "create",
			args:    []any{sObject, sObject2},
			want:    []any{"sObjects", sObject, "sObjects", sObject2},
			wantErr: assert.NoError,
		},
		{
			name:    "create sObjects passed as a slice",
			method:  "create",
			args:    []any{[]SObject{sObject, sObject2}},
			want:    []any{"sObjects", sObject, "sObjects", sObject2},
			wantErr: assert.NoError,
		},
		{
			name:    "delete one id",
			method:  "delete",
			args:    []any{"id"},
			want:    []any{"ids", "id"},
			wantErr: assert.NoError,
		},
		{
			name:    "delete ids passed separately",
			method:  "delete",
			args:    []any{"id", "id2"},
			want:    []any{"ids", "id", "ids", "id2"},
			wantErr: assert.NoError,
		},
		{
			name:    "delete ids passed as a slice",
			method:  "delete",
			args:    []any{[]string{"id", "id2"}},
			want:    []any{"ids", "id", "ids", "id2"},
			wantErr: assert.NoError,
		},
		{
			name:    "emptyRecycleBin ids passed as a slice",
			method:  "emptyRecycleBin",
			args:    []any{[]string{"id", "id2"}},
			want:    []any{"ids", "id", "ids", "id2"},
			wantErr: assert.NoError,
		},
		{
			name:    "invalidateSessions ids passed separately",
			method:  "invalidateSessions",
			args:    []any{"id", "id2"},
			want:    []any{"sessionIds", "id", "sessionIds", "id2"},
			wantErr: assert.NoError,
		},
		{
			name:    "logout  no parameters",
			method:  "logout",
			want:    []any{},
			wantErr: assert.NoError,
		},
		{
			name:    "retrieve one id",
			method:  "retrieve",
			args:    []any{"Name, Phone", "Account", "abcdefg"},
			want:    []any{"fieldList", "Name, Phone", "sObjectType", "Account", "ids", "abcdefg"},
			wantErr: assert.NoError,
		},
		{
			name:    "retrieve ids passed separately",
			method:  "retrieve",
			args:    []any{"Name, Phone", "Account", "abcdefg", "tuvwxyz"},
			want:    []any{"fieldList", "Name, Phone", "sObjectType", "Account", "ids", "abcdefg", "ids", "tuvwxyz"},
			wantErr: assert.NoError,
		},
		{
			name:    "retrieve ids passed as a slice",
			method:  "retrieve",
			args:    []any{"Name, Phone", "Account", []string{"abcdefg", "tuvwxyz"}},
			want:    []any{"fieldList", "Name, Phone", "sObjectType", "Account", "ids", "abcdefg", "ids", "tuvwxyz"},
			wantErr: assert.NoError,
		},
		{
			name:    "retrieve without sObjectType  error returned",
			method:  "retrieve",
			args:    []any{"Name, Phone"},
			wantErr: errorIs(ErrArgumentCount),
		},
		{
			name:    "describeSObjects types passed as a slice",
			method:  "describeSObjects",
			args:    []any{[]string{"Account", "Lead"}},
			want:    []any{"sObjectType", "Account", "sObjectType", "Lead"},
			wantErr: assert.NoError,
		},
		{
			name:    "upsert  external id field first",
			method:  "upsert",
			args:    []any{"Ext__c", sObject},
			want:    []any{"externalIDFieldName", "Ext__c", "sObjects", sObject},
			wantErr: assert.NoError,
		},
		{
			name:    "describeLayout without record types",
			method:  "describeLayout",
			args:    []any{"Account"},
			want:    []any{"sObjectType", "Account"},
			wantErr: assert.NoError,
		},
		{
			name:    "getUpdated  all single parameters",
			method:  "getUpdated",
			args:    []any{"Account", start, end},
			want:    []any{"sObjectType", "Account", "startDate", start, "endDate", end},
			wantErr: assert.NoError,
		},
		{
			name:    "query with surplus argument  error returned",
			method:  "query",
			args:    []any{"SELECT Id FROM Account", "extra"},
			wantErr: errorIs(ErrArgumentCount),
		},
		{
			name:    "logout with argument  error returned",
			method:  "logout",
			args:    []any{"id"},
			wantErr: errorIs(ErrArgumentCount),
		},
		{
			name:    "unknown method  error returned",
			method:  "convertLead",
			args:    []any{"id"},
			wantErr: errorIs(ErrUnknownOperation),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildParams(tt.method, tt.args...)

			if !tt.wantErr(t, err, fmt.Sprintf("BuildParams(%v, %v)", tt.method, tt.args)) {
				return
			}
			if err != nil {
				return
			}
			assert.Equalf(t, tt.want, got.Flatten(), "BuildParams(%v, %v)", tt.method, tt.args)
		})
	}
}

func TestBuildParams_SeparateAndSliceArgumentsMatch(t *testing.T) {
	for _, method := range []string{"create", "update", "delete", "undelete", "emptyRecycleBin", "invalidateSessions", "describeSObjects"} {
		t.Run(method, func(t *testing.T) {
			separate, err := BuildParams(method, "a", "b", "c")
			assert.NoError(t, err)
			slice, err := BuildParams(method, []string{"a", "b", "c"})
			assert.NoError(t, err)

			assert.Equal(t, separate, slice)
			assert.Len(t, separate.Flatten(), 6)
		})
	}
}

func TestBuildParams_SingleItemHasTwoEntries(t *testing.T) {
	for _, method := range []string{"create", "delete", "emptyRecycleBin", "invalidateSessions", "describeSObjects"} {
		t.Run(method, func(t *testing.T) {
			p, err := BuildParams(method, "a")
			assert.NoError(t, err)
			assert.Len(t, p.Flatten(), 2)
		})
	}
}

func TestParams_Flatten(t *testing.T) {
	p := Params{{Key: "fieldList", Value: "Name"}, {Key: "ids", Value: "1"}}
	assert.Equal(t, []any{"fieldList", "Name", "ids", "1"}, p.Flatten())
	assert.Equal(t, []any{}, Params{}.Flatten())
}

func errorIs(target error) assert.ErrorAssertionFunc {
	return func(t assert.TestingT, err error, i ...interface{}) bool {
		return assert.ErrorIs(t, err, target, i...)
	}
}
