package salesforce

import (
	"context"
	"time"
)

// Create creates one or more records. Records may be passed individually or
// as a single slice.
func (c *Connection) Create(ctx context.Context, sObjects ...any) (any, error) {
	return c.invoke(ctx, opCreate, sObjects...)
}

func (c *Connection) Update(ctx context.Context, sObjects ...any) (any, error) {
	return c.invoke(ctx, opUpdate, sObjects...)
}

// Upsert creates or updates records matched on externalIDField.
func (c *Connection) Upsert(ctx context.Context, externalIDField string, sObjects ...any) (any, error) {
	return c.invoke(ctx, opUpsert, prepend(sObjects, externalIDField)...)
}

// Delete deletes records by id. Ids may be passed individually or as a
// single slice.
func (c *Connection) Delete(ctx context.Context, ids ...any) (any, error) {
	return c.invoke(ctx, opDelete, ids...)
}

func (c *Connection) Undelete(ctx context.Context, ids ...any) (any, error) {
	return c.invoke(ctx, opUndelete, ids...)
}

func (c *Connection) EmptyRecycleBin(ctx context.Context, ids ...any) (any, error) {
	return c.invoke(ctx, opEmptyRecycleBin, ids...)
}

func (c *Connection) InvalidateSessions(ctx context.Context, sessionIDs ...any) (any, error) {
	return c.invoke(ctx, opInvalidateSessions, sessionIDs...)
}

func (c *Connection) Logout(ctx context.Context) (any, error) {
	return c.invoke(ctx, opLogout)
}

// Retrieve fetches the fields in fieldList (comma separated) of the records
// of sObjectType with the given ids.
func (c *Connection) Retrieve(ctx context.Context, fieldList, sObjectType string, ids ...any) (any, error) {
	return c.invoke(ctx, opRetrieve, prepend(ids, fieldList, sObjectType)...)
}

// DescribeSObject describes a single object type through DescribeSObjects.
func (c *Connection) DescribeSObject(ctx context.Context, sObjectType string) (any, error) {
	return c.DescribeSObjects(ctx, sObjectType)
}

func (c *Connection) DescribeSObjects(ctx context.Context, sObjectTypes ...any) (any, error) {
	return c.invoke(ctx, opDescribeSObjects, sObjectTypes...)
}

func (c *Connection) DescribeGlobal(ctx context.Context) (any, error) {
	return c.invoke(ctx, opDescribeGlobal)
}

func (c *Connection) DescribeLayout(ctx context.Context, sObjectType string, recordTypeIDs ...any) (any, error) {
	return c.invoke(ctx, opDescribeLayout, prepend(recordTypeIDs, sObjectType)...)
}

func (c *Connection) DescribeTabs(ctx context.Context) (any, error) {
	return c.invoke(ctx, opDescribeTabs)
}

func (c *Connection) Query(ctx context.Context, soql string) (any, error) {
	return c.invoke(ctx, opQuery, soql)
}

// QueryAll is Query including deleted and archived records.
func (c *Connection) QueryAll(ctx context.Context, soql string) (any, error) {
	return c.invoke(ctx, opQueryAll, soql)
}

func (c *Connection) QueryMore(ctx context.Context, queryLocator string) (any, error) {
	return c.invoke(ctx, opQueryMore, queryLocator)
}

func (c *Connection) Search(ctx context.Context, sosl string) (any, error) {
	return c.invoke(ctx, opSearch, sosl)
}

func (c *Connection) GetDeleted(ctx context.Context, sObjectType string, start, end time.Time) (any, error) {
	return c.invoke(ctx, opGetDeleted, sObjectType, start, end)
}

func (c *Connection) GetUpdated(ctx context.Context, sObjectType string, start, end time.Time) (any, error) {
	return c.invoke(ctx, opGetUpdated, sObjectType, start, end)
}

func (c *Connection) GetServerTimestamp(ctx context.Context) (any, error) {
	return c.invoke(ctx, opGetServerTimestamp)
}

func (c *Connection) GetUserInfo(ctx context.Context) (any, error) {
	return c.invoke(ctx, opGetUserInfo)
}

func (c *Connection) ResetPassword(ctx context.Context, userID string) (any, error) {
	return c.invoke(ctx, opResetPassword, userID)
}

func (c *Connection) SetPassword(ctx context.Context, userID, password string) (any, error) {
	return c.invoke(ctx, opSetPassword, userID, password)
}

func prepend(rest []any, first ...any) []any {
	args := make([]any, 0, len(first)+len(rest))
	args = append(args, first...)
	return append(args, rest...)
}
