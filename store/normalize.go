package store

import (
	"database/sql"
	"strconv"
	"strings"
)

type columnKind int

const (
	kindText columnKind = iota
	kindInteger
	kindFloat
)

var integerTypes = map[string]struct{}{
	"TINYINT": {}, "SMALLINT": {}, "MEDIUMINT": {}, "INT": {}, "INTEGER": {},
	"BIGINT": {}, "YEAR": {}, "INT2": {}, "INT4": {}, "INT8": {},
}

var floatTypes = map[string]struct{}{
	"FLOAT": {}, "DOUBLE": {}, "REAL": {}, "FLOAT4": {}, "FLOAT8": {}, "DOUBLE PRECISION": {},
}

func kindOf(databaseType string) columnKind {
	t := strings.ToUpper(strings.TrimSpace(databaseType))
	t = strings.TrimPrefix(t, "UNSIGNED ")
	if _, ok := integerTypes[t]; ok {
		return kindInteger
	}
	if _, ok := floatTypes[t]; ok {
		return kindFloat
	}
	return kindText
}

// normalizeRow converts the raw byte slices some drivers return (MySQL's text
// protocol in particular) into values that encode naturally as JSON. DECIMAL
// columns stay strings so no precision is lost.
func normalizeRow(row Row, columns []*sql.ColumnType) Row {
	for _, col := range columns {
		name := col.Name()
		if v, ok := row[name]; ok {
			row[name] = normalizeValue(v, kindOf(col.DatabaseTypeName()))
		}
	}
	return row
}

func normalizeValue(v any, kind columnKind) any {
	raw, ok := v.([]byte)
	if !ok {
		return v
	}

	s := string(raw)
	switch kind {
	case kindInteger:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
	case kindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
