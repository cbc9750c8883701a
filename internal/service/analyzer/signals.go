// Package analyzer estimates query cost and proposes optimizations. Text
// analysis is a best-effort heuristic over token patterns, not a grammar
// parse; its output carries a conservative confidence score and degrades to
// a zero-confidence estimate instead of failing on malformed input.
package analyzer

import (
	"strings"

	"semql/internal/domain"
)

// TableColumn identifies one column reference attributed to a table.
type TableColumn struct {
	Table  string
	Column string
}

// Signals are the coarse facts the cost model and suggester consume. They
// come either from heuristic SQL-text scanning or, exactly, from a compiled
// logical query.
type Signals struct {
	Tables        []string
	JoinCount     int
	SubqueryCount int
	HasFrom       bool
	HasWhere      bool
	HasAggregate  bool
	HasGroupBy    bool
	HasOrderBy    bool
	HasLimit      bool
	SelectStar    bool
	WhereColumns  []TableColumn
}

var aggregateFuncs = map[string]bool{
	"SUM": true, "AVG": true, "MIN": true, "MAX": true, "COUNT": true,
}

// whereStopWords end a WHERE-clause scan.
var whereStopWords = map[string]bool{
	"GROUP": true, "ORDER": true, "LIMIT": true, "HAVING": true,
	"UNION": true, "OFFSET": true,
}

// ExtractSignals scans SQL text for the coarse signals the cost model needs.
// It never fails: unrecognizable text simply yields empty signals.
func ExtractSignals(sqlText string) Signals {
	toks := tokenize(sqlText)
	var sig Signals

	for i := 0; i < len(toks); i++ {
		switch strings.ToUpper(toks[i]) {
		case "SELECT":
			if i+1 < len(toks) && toks[i+1] == "*" {
				sig.SelectStar = true
			}
		case "FROM":
			sig.HasFrom = true
			// Comma-separated FROM lists still count as one scan each.
			for j := i + 1; j < len(toks); j += 2 {
				name, ok := tableNameToken(toks[j])
				if !ok {
					break
				}
				sig.addTable(name)
				if j+1 >= len(toks) || toks[j+1] != "," {
					break
				}
			}
		case "JOIN":
			sig.JoinCount++
			if i+1 < len(toks) {
				if name, ok := tableNameToken(toks[i+1]); ok {
					sig.addTable(name)
				}
			}
		case "WHERE":
			sig.HasWhere = true
			sig.WhereColumns = append(sig.WhereColumns, scanWhereColumns(toks[i+1:], sig.firstTable())...)
		case "GROUP":
			if i+1 < len(toks) && strings.EqualFold(toks[i+1], "BY") {
				sig.HasGroupBy = true
				sig.HasAggregate = true
			}
		case "ORDER":
			if i+1 < len(toks) && strings.EqualFold(toks[i+1], "BY") {
				sig.HasOrderBy = true
			}
		case "LIMIT":
			sig.HasLimit = true
		case "(":
			if i+1 < len(toks) && strings.EqualFold(toks[i+1], "SELECT") {
				sig.SubqueryCount++
			}
		default:
			if aggregateFuncs[strings.ToUpper(toks[i])] && i+1 < len(toks) && toks[i+1] == "(" {
				sig.HasAggregate = true
			}
		}
	}

	return sig
}

func (s *Signals) addTable(name string) {
	for _, t := range s.Tables {
		if t == name {
			return
		}
	}
	s.Tables = append(s.Tables, name)
}

func (s *Signals) firstTable() string {
	if len(s.Tables) == 0 {
		return ""
	}
	return s.Tables[0]
}

// tableNameToken strips identifier quoting and schema prefixes from a token
// that should name a table. Returns false for anything that cannot be one
// (punctuation, a subquery opener, a keyword).
func tableNameToken(tok string) (string, bool) {
	if tok == "" || tok == "(" || !isIdentStart(tok[0]) {
		return "", false
	}
	if keywordsAfterFrom[strings.ToUpper(tok)] {
		return "", false
	}
	name := unquoteIdent(tok)
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[dot+1:]
	}
	return name, name != ""
}

var keywordsAfterFrom = map[string]bool{
	"SELECT": true, "WHERE": true, "GROUP": true, "ORDER": true,
	"LIMIT": true, "JOIN": true, "ON": true, "AS": true,
}

// scanWhereColumns walks predicate tokens after WHERE, collecting columns
// that appear on the left of a comparison. It stops at the next clause
// keyword. Nested expressions are skipped rather than interpreted.
func scanWhereColumns(toks []string, defaultTable string) []TableColumn {
	var cols []TableColumn
	expectColumn := true
	for i := 0; i < len(toks); i++ {
		upper := strings.ToUpper(toks[i])
		if whereStopWords[upper] {
			break
		}
		switch upper {
		case "AND", "OR", "NOT":
			expectColumn = true
			continue
		case "(", ")":
			continue
		}
		if !expectColumn {
			continue
		}
		expectColumn = false
		if !isIdentStart(toks[i][0]) || aggregateFuncs[upper] {
			continue
		}
		name := unquoteIdent(toks[i])
		tc := TableColumn{Table: defaultTable, Column: name}
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			tc.Table = unquoteIdent(name[:dot])
			tc.Column = name[dot+1:]
		}
		if tc.Column != "" {
			cols = append(cols, tc)
		}
	}
	return cols
}

func unquoteIdent(s string) string {
	var sb strings.Builder
	for _, part := range strings.Split(s, ".") {
		if len(part) >= 2 {
			if (part[0] == '"' && part[len(part)-1] == '"') || (part[0] == '`' && part[len(part)-1] == '`') {
				part = part[1 : len(part)-1]
			}
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '"' || ch == '`' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ch == '.' || ch == '$' || (ch >= '0' && ch <= '9')
}

// tokenize splits SQL into identifiers (dotted and quoted segments kept
// together), numbers, string literals, and individual punctuation tokens.
// It is deliberately lossy: comments and unterminated literals are consumed
// without error because the caller only needs coarse signals.
func tokenize(sqlText string) []string {
	var toks []string
	i := 0
	for i < len(sqlText) {
		ch := sqlText[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-':
			for i < len(sqlText) && sqlText[i] != '\n' {
				i++
			}
		case ch == '\'':
			j := i + 1
			for j < len(sqlText) && sqlText[j] != '\'' {
				j++
			}
			if j < len(sqlText) {
				j++
			}
			toks = append(toks, sqlText[i:j])
			i = j
		case isIdentStart(ch):
			j := i
			for j < len(sqlText) && isIdentChar(sqlText[j]) {
				if sqlText[j] == '"' || sqlText[j] == '`' {
					quote := sqlText[j]
					j++
					for j < len(sqlText) && sqlText[j] != quote {
						j++
					}
				}
				if j < len(sqlText) {
					j++
				}
			}
			toks = append(toks, sqlText[i:j])
			i = j
		case ch >= '0' && ch <= '9':
			j := i
			for j < len(sqlText) && (sqlText[j] >= '0' && sqlText[j] <= '9' || sqlText[j] == '.') {
				j++
			}
			toks = append(toks, sqlText[i:j])
			i = j
		case ch == '<' || ch == '>' || ch == '!':
			j := i + 1
			if j < len(sqlText) && (sqlText[j] == '=' || sqlText[j] == '>') {
				j++
			}
			toks = append(toks, sqlText[i:j])
			i = j
		default:
			toks = append(toks, string(ch))
			i++
		}
	}
	return toks
}

// LogicalSignals derives exact signals from a compiled query's structure.
// This is the high-confidence path: no text scanning is involved.
func LogicalSignals(path domain.JoinPath, q domain.LogicalQuery, measureCount, dimensionCount int) Signals {
	sig := Signals{
		Tables:       path.Tables(),
		JoinCount:    len(path.Steps),
		HasFrom:      true,
		HasWhere:     len(q.Filters) > 0,
		HasAggregate: measureCount > 0,
		HasGroupBy:   measureCount > 0 && dimensionCount > 0,
		HasOrderBy:   len(q.OrderBy) > 0,
		HasLimit:     q.Limit != nil,
	}
	for _, f := range q.Filters {
		sig.WhereColumns = append(sig.WhereColumns, TableColumn{Table: f.Table, Column: f.Column})
	}
	return sig
}
