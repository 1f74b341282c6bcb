// Package stormsql turns a subset of SQL SELECT statements into Storm queries.
package stormsql

import (
	"fmt"
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/asdine/storm/v3/q"
	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

// A SelectClause contains all the parsed SQL data.
type SelectClause struct {
	SelectedFields  []string // empty means all the fields
	Count           bool
	Tablename       string
	Matcher         q.Matcher
	Skip            int
	Limit           int
	OrderBy         []string
	OrderByReversed bool
}

// ParseSelect parses the given SELECT statement.
func ParseSelect(sql string) (*SelectClause, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse SQL")
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.New("not a select statement")
	}

	sc := SelectClause{
		SelectedFields: []string{},
		Matcher:        q.And(),
	}

	// SELECT * ...
	// SELECT count(*) ...
	// SELECT Title,UnlocksAt ...
	for _, se := range s.SelectExprs {
		switch v := se.(type) {
		case *sqlparser.StarExpr:
		case *sqlparser.AliasedExpr:
			switch v := v.Expr.(type) {
			case *sqlparser.ColName:
				sc.SelectedFields = append(sc.SelectedFields, v.Name.String())
			case *sqlparser.FuncExpr:
				if !v.Name.EqualString("count") {
					return nil, errors.Errorf("unsupported function %s", v.Name)
				}
				sc.Count = true
			default:
				return nil, errors.Errorf("unsupported select expression %s", sqlparser.String(v))
			}
		default:
			return nil, errors.New("unsupported select expression")
		}
	}

	// FROM capsules
	if len(s.From) != 1 {
		return nil, errors.New("exactly one table must be selected")
	}
	table, ok := s.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.New("joins are not supported")
	}
	sc.Tablename = sqlparser.GetTableName(table.Expr).String()

	// WHERE Anonymous = true AND UnlocksAt < '2027-01-01'
	if s.Where != nil {
		sc.Matcher, err = parseWhere(s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	// LIMIT 5
	// LIMIT 2,5
	if s.Limit != nil {
		if s.Limit.Offset != nil {
			if sc.Skip, err = parseInt(s.Limit.Offset); err != nil {
				return nil, errors.Wrap(err, "offset")
			}
		}
		if sc.Limit, err = parseInt(s.Limit.Rowcount); err != nil {
			return nil, errors.Wrap(err, "limit")
		}
	}

	// ORDER BY UnlocksAt
	// ORDER BY UnlocksAt DESC, CreatedAt ASC     => All will be DESC due to storm limitation
	for _, ob := range s.OrderBy {
		col, ok := ob.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("only columns can be ordered")
		}
		if ob.Direction == sqlparser.DescScr {
			sc.OrderByReversed = true
		}
		sc.OrderBy = append(sc.OrderBy, col.Name.String())
	}

	return &sc, nil
}

func parseWhere(expr sqlparser.Expr) (q.Matcher, error) {
	switch v := expr.(type) {
	case *sqlparser.ComparisonExpr:
		return parseComparison(v)
	case *sqlparser.IsExpr:
		col, ok := v.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("IS applies to a column")
		}
		switch v.Operator {
		case sqlparser.IsNullStr:
			return q.Eq(col.Name.String(), nil), nil
		case sqlparser.IsNotNullStr:
			return q.Not(q.Eq(col.Name.String(), nil)), nil
		default:
			return nil, errors.Errorf("unsupported operator %s", v.Operator)
		}
	case *sqlparser.AndExpr, *sqlparser.OrExpr:
		var left, right sqlparser.Expr
		var combine func(...q.Matcher) q.Matcher
		if and, ok := v.(*sqlparser.AndExpr); ok {
			left, right, combine = and.Left, and.Right, q.And
		} else {
			or := v.(*sqlparser.OrExpr)
			left, right, combine = or.Left, or.Right, q.Or
		}

		l, err := parseWhere(left)
		if err != nil {
			return nil, err
		}
		r, err := parseWhere(right)
		if err != nil {
			return nil, err
		}
		return combine(l, r), nil
	case *sqlparser.ParenExpr:
		return parseWhere(v.Expr)
	case *sqlparser.NotExpr:
		m, err := parseWhere(v.Expr)
		if err != nil {
			return nil, err
		}
		return q.Not(m), nil
	default:
		return nil, errors.Errorf("unsupported where expression %s", sqlparser.String(expr))
	}
}

func parseComparison(v *sqlparser.ComparisonExpr) (q.Matcher, error) {
	col, ok := v.Left.(*sqlparser.ColName)
	if !ok {
		return nil, errors.New("the left side of a comparison must be a column")
	}
	field := col.Name.String()

	var value any
	switch sqlvalue := v.Right.(type) {
	case sqlparser.BoolVal:
		value = bool(sqlvalue)
	case *sqlparser.NullVal:
		value = nil
	case sqlparser.ValTuple:
		var tuple []any
		for _, t := range sqlvalue {
			val, ok := t.(*sqlparser.SQLVal)
			if !ok {
				return nil, errors.New("tuples only contain values")
			}
			item, err := parseSQLVal(val)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, item)
		}
		value = tuple
	case *sqlparser.SQLVal:
		var err error
		if value, err = parseSQLVal(sqlvalue); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unsupported value %s", sqlparser.String(v.Right))
	}

	switch v.Operator {
	case sqlparser.EqualStr:
		return q.Eq(field, value), nil
	case sqlparser.NotEqualStr:
		return q.Not(q.Eq(field, value)), nil
	case sqlparser.GreaterThanStr:
		return q.Gt(field, value), nil
	case sqlparser.GreaterEqualStr:
		return q.Gte(field, value), nil
	case sqlparser.LessThanStr:
		return q.Lt(field, value), nil
	case sqlparser.LessEqualStr:
		return q.Lte(field, value), nil
	case sqlparser.InStr:
		return q.In(field, value), nil
	case sqlparser.LikeStr:
		return q.Re(field, fmt.Sprintf("%v", value)), nil
	default:
		return nil, errors.Errorf("unsupported operator %s", v.Operator)
	}
}

func parseInt(expr sqlparser.Expr) (int, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok || val.Type != sqlparser.IntVal {
		return 0, errors.New("an integer is expected")
	}
	return strconv.Atoi(string(val.Val))
}

func parseSQLVal(v *sqlparser.SQLVal) (any, error) {
	switch v.Type {
	case sqlparser.StrVal:
		// Dates are compared as time.Time.
		if t, err := dateparse.ParseAny(string(v.Val)); err == nil {
			return t.UTC(), nil
		}
		return string(v.Val), nil
	case sqlparser.IntVal:
		return strconv.Atoi(string(v.Val))
	case sqlparser.FloatVal:
		return strconv.ParseFloat(string(v.Val), 64)
	case sqlparser.HexNum:
		return strconv.ParseInt(string(v.Val), 0, 64)
	case sqlparser.HexVal:
		return v.HexDecode()
	default:
		return nil, errors.Errorf("unsupported value %s", sqlparser.String(v))
	}
}
