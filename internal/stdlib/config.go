package stdlib

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// RegisterConfig installs the `config` module: config.load(path) parses a
// TOML file into a Map, and config.parse(text) does the same from an
// in-memory string, reusing the same BurntSushi/toml decoder the rc-file
// reader in internal/config is built on.
func RegisterConfig(env *object.Environment) {
	mod := &object.Module{Name: "config", Members: map[string]object.Object{}}

	mod.Members["load"] = &object.Builtin{Name: "load", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "config.load(path) takes exactly 1 argument")
		}
		path, ok := args[0].(*object.String)
		if !ok {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "config.load: path must be a string")
		}
		var data map[string]any
		if _, err := toml.DecodeFile(path.Value, &data); err != nil {
			return object.NewError(object.FILE, pos, "config.load: %s", err.Error())
		}
		return tomlToObject(data)
	}}

	mod.Members["parse"] = &object.Builtin{Name: "parse", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "config.parse(text) takes exactly 1 argument")
		}
		text, ok := args[0].(*object.String)
		if !ok {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "config.parse: argument must be a string")
		}
		var data map[string]any
		if _, err := toml.Decode(text.Value, &data); err != nil {
			return object.NewError(object.FILE, pos, "config.parse: %s", err.Error())
		}
		return tomlToObject(data)
	}}

	env.Define("config", mod, true)
}

// tomlToObject recursively converts a decoded TOML value (as produced by
// toml.Decode into an `any`-typed map) into the language's value model.
func tomlToObject(v any) object.Object {
	switch val := v.(type) {
	case nil:
		return object.NIL
	case map[string]any:
		m := object.NewMap()
		for k, elem := range val {
			key := &object.String{Value: k}
			m.Set(key, key, tomlToObject(elem))
		}
		return m
	case []map[string]any:
		arr := &object.Array{}
		for _, elem := range val {
			arr.Elements = append(arr.Elements, tomlToObject(elem))
		}
		return arr
	case []any:
		arr := &object.Array{}
		for _, elem := range val {
			arr.Elements = append(arr.Elements, tomlToObject(elem))
		}
		return arr
	case int64:
		return &object.Integer{Value: val}
	case float64:
		return &object.Real{Value: val}
	case bool:
		return object.NativeBoolToBoolean(val)
	case string:
		return &object.String{Value: val}
	case time.Time:
		return &object.String{Value: val.Format(time.RFC3339)}
	default:
		return object.NIL
	}
}
