package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions, in the form ent's migrate package
// consumes. Timestamps are stored as Unix nanoseconds.
var (
	documentsColumns = []*schema.Column{
		{Name: "path", Type: field.TypeString},
		{Name: "parent", Type: field.TypeString, Default: ""},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	documentsTable = &schema.Table{
		Name:       "documents",
		Columns:    documentsColumns,
		PrimaryKey: []*schema.Column{documentsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "document_parent_updated_at", Columns: []*schema.Column{documentsColumns[1], documentsColumns[4]}},
		},
	}

	accountsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "display_name", Type: field.TypeString, Default: ""},
		{Name: "photo_url", Type: field.TypeString, Default: ""},
		{Name: "provider", Type: field.TypeString},
		{Name: "password_hash", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
	}
	accountsTable = &schema.Table{
		Name:       "accounts",
		Columns:    accountsColumns,
		PrimaryKey: []*schema.Column{accountsColumns[0]},
	}

	llmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmRequestEventsColumns,
		PrimaryKey: []*schema.Column{llmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmRequestEventsColumns[5]}},
		},
	}

	globalSequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	globalSequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    globalSequenceColumns,
		PrimaryKey: []*schema.Column{globalSequenceColumns[0]},
	}

	tables = []*schema.Table{
		documentsTable,
		accountsTable,
		llmRequestEventsTable,
		globalSequenceTable,
	}
)

// builder is the SQL dialect every query in this package is built with.
var builder = entsql.Dialect(dialect.SQLite)

// migrate creates or alters all tables to match the definitions above.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
