package stdlib

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// dbState holds the open connections and in-flight transactions a script
// has acquired. Handles are plain incrementing integers, the same handle
// space serving both a *sql.DB and a *sql.Tx: `begin()` returns a new
// handle distinct from the connection's, and query/exec check the
// transaction map first, then the connection map.
type dbState struct {
	dbs  map[int64]*sql.DB
	txs  map[int64]*sql.Tx
	next int64
}

func newDBState() *dbState {
	return &dbState{dbs: make(map[int64]*sql.DB), txs: make(map[int64]*sql.Tx), next: 1}
}

// RegisterDB installs the `db` module: connect/query/exec/close plus
// begin/commit/rollback over the mysql/sqlite3/pq drivers.
func RegisterDB(env *object.Environment) {
	st := newDBState()
	mod := &object.Module{Name: "db", Members: map[string]object.Object{}}

	mod.Members["connect"] = &object.Builtin{Name: "connect", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "db.connect(dsn, driver) takes exactly 2 arguments")
		}
		dsn, ok1 := args[0].(*object.String)
		driver, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.connect(dsn, driver) arguments must be strings")
		}
		conn, err := sql.Open(driver.Value, dsn.Value)
		if err != nil {
			return object.NewError(object.FILE, pos, "db.connect: %s", err.Error())
		}
		if err := conn.Ping(); err != nil {
			return object.NewError(object.FILE, pos, "db.connect: %s", err.Error())
		}
		h := st.next
		st.next++
		st.dbs[h] = conn
		return &object.Integer{Value: h}
	}}

	mod.Members["close"] = &object.Builtin{Name: "close", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "db.close(handle) takes exactly 1 argument")
		}
		h, ok := args[0].(*object.Integer)
		if !ok {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.close: handle must be an integer")
		}
		conn, ok := st.dbs[h.Value]
		if !ok {
			return object.NewError(object.INVALID_ARGS, pos, "db.close: no such handle %d", h.Value)
		}
		delete(st.dbs, h.Value)
		if err := conn.Close(); err != nil {
			return object.NewError(object.FILE, pos, "db.close: %s", err.Error())
		}
		return object.NIL
	}}

	mod.Members["begin"] = &object.Builtin{Name: "begin", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "db.begin(handle) takes exactly 1 argument")
		}
		h, ok := args[0].(*object.Integer)
		if !ok {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.begin: handle must be an integer")
		}
		conn, ok := st.dbs[h.Value]
		if !ok {
			return object.NewError(object.INVALID_ARGS, pos, "db.begin: no such handle %d", h.Value)
		}
		tx, err := conn.Begin()
		if err != nil {
			return object.NewError(object.FILE, pos, "db.begin: %s", err.Error())
		}
		th := st.next
		st.next++
		st.txs[th] = tx
		return &object.Integer{Value: th}
	}}

	mod.Members["commit"] = &object.Builtin{Name: "commit", Fn: func(pos source.Position, args ...object.Object) object.Object {
		return st.endTx(pos, args, "commit", func(tx *sql.Tx) error { return tx.Commit() })
	}}
	mod.Members["rollback"] = &object.Builtin{Name: "rollback", Fn: func(pos source.Position, args ...object.Object) object.Object {
		return st.endTx(pos, args, "rollback", func(tx *sql.Tx) error { return tx.Rollback() })
	}}

	mod.Members["query"] = &object.Builtin{Name: "query", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) < 2 {
			return object.NewError(object.INVALID_ARGS, pos, "db.query(handle, sql, ...params) takes at least 2 arguments")
		}
		h, ok := args[0].(*object.Integer)
		query, ok2 := args[1].(*object.String)
		if !ok || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.query: handle must be an integer, sql must be a string")
		}
		params := objectsToAny(args[2:])

		var rows *sql.Rows
		var err error
		if tx, isTx := st.txs[h.Value]; isTx {
			rows, err = tx.Query(query.Value, params...)
		} else if conn, isConn := st.dbs[h.Value]; isConn {
			rows, err = conn.Query(query.Value, params...)
		} else {
			return object.NewError(object.INVALID_ARGS, pos, "db.query: no such handle %d", h.Value)
		}
		if err != nil {
			return object.NewError(object.FILE, pos, "db.query: %s", err.Error())
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return object.NewError(object.FILE, pos, "db.query: %s", err.Error())
		}
		colTypes, _ := rows.ColumnTypes()

		result := &object.Array{}
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.NewError(object.FILE, pos, "db.query: %s", err.Error())
			}
			row := object.NewMap()
			for i, col := range cols {
				var ct *sql.ColumnType
				if i < len(colTypes) {
					ct = colTypes[i]
				}
				row.Set(&object.String{Value: col}, &object.String{Value: col}, mapValue(vals[i], ct))
			}
			result.Elements = append(result.Elements, row)
		}
		return result
	}}

	mod.Members["exec"] = &object.Builtin{Name: "exec", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) < 2 {
			return object.NewError(object.INVALID_ARGS, pos, "db.exec(handle, sql, ...params) takes at least 2 arguments")
		}
		h, ok := args[0].(*object.Integer)
		query, ok2 := args[1].(*object.String)
		if !ok || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.exec: handle must be an integer, sql must be a string")
		}
		params := objectsToAny(args[2:])

		var res sql.Result
		var err error
		if tx, isTx := st.txs[h.Value]; isTx {
			res, err = tx.Exec(query.Value, params...)
		} else if conn, isConn := st.dbs[h.Value]; isConn {
			res, err = conn.Exec(query.Value, params...)
		} else {
			return object.NewError(object.INVALID_ARGS, pos, "db.exec: no such handle %d", h.Value)
		}
		if err != nil {
			return object.NewError(object.FILE, pos, "db.exec: %s", err.Error())
		}
		rowsAffected, _ := res.RowsAffected()
		lastInsertID, _ := res.LastInsertId()
		out := object.NewMap()
		out.Set(&object.String{Value: "rows_affected"}, &object.String{Value: "rows_affected"}, &object.Integer{Value: rowsAffected})
		out.Set(&object.String{Value: "last_insert_id"}, &object.String{Value: "last_insert_id"}, &object.Integer{Value: lastInsertID})
		return out
	}}

	env.Define("db", mod, true)
}

func (st *dbState) endTx(pos source.Position, args []object.Object, name string, fn func(*sql.Tx) error) object.Object {
	if len(args) != 1 {
		return object.NewError(object.INVALID_ARGS, pos, "db.%s(handle) takes exactly 1 argument", name)
	}
	h, ok := args[0].(*object.Integer)
	if !ok {
		return object.NewError(object.INCOMPATIBLE_TYPE, pos, "db.%s: handle must be an integer", name)
	}
	tx, ok := st.txs[h.Value]
	if !ok {
		return object.NewError(object.INVALID_ARGS, pos, "db.%s: no such transaction %d", name, h.Value)
	}
	delete(st.txs, h.Value)
	if err := fn(tx); err != nil {
		return object.NewError(object.FILE, pos, "db.%s: %s", name, err.Error())
	}
	return object.NIL
}

func objectsToAny(args []object.Object) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *object.Integer:
			out[i] = v.Value
		case *object.Real:
			out[i] = v.Value
		case *object.String:
			out[i] = v.Value
		case *object.Boolean:
			out[i] = v.Value
		case *object.Nil:
			out[i] = nil
		default:
			out[i] = v.Inspect()
		}
	}
	return out
}

// mapValue converts one scanned SQL column value into a language Object.
// Drivers hand text columns back as []byte as often as string, so []byte is
// stringified unless the driver-reported column type names a binary kind,
// in which case the raw bytes surface as an array of integers.
func mapValue(v any, ct *sql.ColumnType) object.Object {
	switch val := v.(type) {
	case nil:
		return object.NIL
	case int64:
		return &object.Integer{Value: val}
	case float64:
		return &object.Real{Value: val}
	case bool:
		return object.NativeBoolToBoolean(val)
	case time.Time:
		return &object.String{Value: val.Format(time.RFC3339)}
	case string:
		return &object.String{Value: val}
	case []byte:
		if ct != nil && isBinaryColumn(ct.DatabaseTypeName()) {
			elems := make([]object.Object, len(val))
			for i, b := range val {
				elems[i] = &object.Integer{Value: int64(b)}
			}
			return &object.Array{Elements: elems}
		}
		return &object.String{Value: string(val)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", val)}
	}
}

func isBinaryColumn(typeName string) bool {
	switch strings.ToUpper(typeName) {
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "BYTEA":
		return true
	}
	return false
}
