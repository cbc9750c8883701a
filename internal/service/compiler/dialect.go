package compiler

import (
	"fmt"
	"strings"

	"semql/internal/domain"
)

// Dialect selects identifier quoting, paging syntax, and schema qualification
// for emitted SQL.
type Dialect string

// Supported dialects.
const (
	DialectANSI  Dialect = "ansi"
	DialectMySQL Dialect = "mysql"
)

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectANSI:
		return DialectANSI, nil
	case DialectMySQL:
		return DialectMySQL, nil
	}
	return "", &domain.UnsupportedDialectError{Dialect: s}
}

// QuoteIdent quotes a single identifier for the dialect.
func (d Dialect) QuoteIdent(name string) string {
	switch d {
	case DialectMySQL:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// QualifyTable renders a table reference. MySQL-like dialects address tables
// within the current database and omit the schema prefix.
func (d Dialect) QualifyTable(schema, table string) string {
	if schema == "" || d == DialectMySQL {
		return d.QuoteIdent(table)
	}
	return d.QuoteIdent(schema) + "." + d.QuoteIdent(table)
}

// QualifyColumn renders a table-qualified column reference.
func (d Dialect) QualifyColumn(table, column string) string {
	return d.QuoteIdent(table) + "." + d.QuoteIdent(column)
}

// LimitClause renders paging. ANSI uses LIMIT n OFFSET m; MySQL uses the
// comma form LIMIT m, n when an offset is present.
func (d Dialect) LimitClause(limit, offset *int) string {
	if limit == nil && offset == nil {
		return ""
	}
	switch d {
	case DialectMySQL:
		if limit == nil {
			// MySQL has no OFFSET without LIMIT; use the documented idiom.
			return fmt.Sprintf("LIMIT %d, 18446744073709551615", *offset)
		}
		if offset != nil {
			return fmt.Sprintf("LIMIT %d, %d", *offset, *limit)
		}
		return fmt.Sprintf("LIMIT %d", *limit)
	default:
		var sb strings.Builder
		if limit != nil {
			fmt.Fprintf(&sb, "LIMIT %d", *limit)
		}
		if offset != nil {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "OFFSET %d", *offset)
		}
		return sb.String()
	}
}
