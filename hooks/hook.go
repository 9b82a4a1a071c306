// Package hooks provides observability hooks for simpleado
package hooks

import (
	"context"
	"strings"
	"time"
)

// QueryEvent describes one driver call made for a command.
type QueryEvent struct {
	// Method is the driver call: "exec", "query" or "query_row".
	Method string
	// System names the database family, e.g. "postgresql".
	System    string
	Query     string
	Args      []any
	StartTime time.Time
	Err       error
}

// Hook observes driver calls. BeforeQuery may return a derived context that is
// passed to the driver call and to AfterQuery.
type Hook interface {
	BeforeQuery(ctx context.Context, event *QueryEvent) context.Context
	AfterQuery(ctx context.Context, event *QueryEvent)
}

// Before runs BeforeQuery on every hook in order.
func Before(ctx context.Context, hs []Hook, event *QueryEvent) context.Context {
	for _, h := range hs {
		ctx = h.BeforeQuery(ctx, event)
	}
	return ctx
}

// After runs AfterQuery on every hook in reverse order.
func After(ctx context.Context, hs []Hook, event *QueryEvent) {
	for i := len(hs) - 1; i >= 0; i-- {
		hs[i].AfterQuery(ctx, event)
	}
}

func truncate(query string) string {
	if len(query) > 500 {
		return query[:500] + "..."
	}
	return query
}

// OperationType extracts the operation type from a query
func OperationType(query string) string {
	query = strings.TrimSpace(strings.ToUpper(query))
	switch {
	case strings.HasPrefix(query, "SELECT"), strings.HasPrefix(query, "WITH"):
		return "select"
	case strings.HasPrefix(query, "INSERT"):
		return "insert"
	case strings.HasPrefix(query, "UPDATE"):
		return "update"
	case strings.HasPrefix(query, "DELETE"):
		return "delete"
	case strings.HasPrefix(query, "MERGE"):
		return "merge"
	case strings.HasPrefix(query, "CALL"), strings.HasPrefix(query, "EXEC"):
		return "call"
	case strings.HasPrefix(query, "CREATE"):
		return "create"
	case strings.HasPrefix(query, "DROP"):
		return "drop"
	case strings.HasPrefix(query, "ALTER"):
		return "alter"
	case strings.HasPrefix(query, "TRUNCATE"):
		return "truncate"
	default:
		return "other"
	}
}
