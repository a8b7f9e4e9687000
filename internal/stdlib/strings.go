package stdlib

import (
	"strings"

	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// RegisterStrings installs the `str` module, a small set of text utilities
// a shell script reaches for constantly: splitting command output, trimming
// read() lines, building paths from pieces.
func RegisterStrings(env *object.Environment) {
	mod := &object.Module{Name: "str", Members: map[string]object.Object{}}

	str1 := func(name string, pos source.Position, args []object.Object) (string, *object.RuntimeError) {
		if len(args) != 1 {
			return "", object.NewError(object.INVALID_ARGS, pos, "str.%s(s) takes exactly 1 argument", name)
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return "", object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.%s: argument must be a string", name)
		}
		return s.Value, nil
	}

	mod.Members["upper"] = &object.Builtin{Name: "upper", Fn: func(pos source.Position, args ...object.Object) object.Object {
		s, err := str1("upper", pos, args)
		if err != nil {
			return err
		}
		return &object.String{Value: strings.ToUpper(s)}
	}}

	mod.Members["lower"] = &object.Builtin{Name: "lower", Fn: func(pos source.Position, args ...object.Object) object.Object {
		s, err := str1("lower", pos, args)
		if err != nil {
			return err
		}
		return &object.String{Value: strings.ToLower(s)}
	}}

	mod.Members["trim"] = &object.Builtin{Name: "trim", Fn: func(pos source.Position, args ...object.Object) object.Object {
		s, err := str1("trim", pos, args)
		if err != nil {
			return err
		}
		return &object.String{Value: strings.TrimSpace(s)}
	}}

	mod.Members["split"] = &object.Builtin{Name: "split", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "str.split(s, sep) takes exactly 2 arguments")
		}
		s, ok1 := args[0].(*object.String)
		sep, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.split: arguments must be strings")
		}
		parts := strings.Split(s.Value, sep.Value)
		arr := &object.Array{}
		for _, p := range parts {
			arr.Elements = append(arr.Elements, &object.String{Value: p})
		}
		return arr
	}}

	mod.Members["join"] = &object.Builtin{Name: "join", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "str.join(arr, sep) takes exactly 2 arguments")
		}
		arr, ok1 := args[0].(*object.Array)
		sep, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.join: arguments must be an array and a string")
		}
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			parts[i] = displayString(el)
		}
		return &object.String{Value: strings.Join(parts, sep.Value)}
	}}

	mod.Members["replace"] = &object.Builtin{Name: "replace", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewError(object.INVALID_ARGS, pos, "str.replace(s, old, new) takes exactly 3 arguments")
		}
		s, ok1 := args[0].(*object.String)
		old, ok2 := args[1].(*object.String)
		nw, ok3 := args[2].(*object.String)
		if !ok1 || !ok2 || !ok3 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.replace: arguments must be strings")
		}
		return &object.String{Value: strings.ReplaceAll(s.Value, old.Value, nw.Value)}
	}}

	mod.Members["starts_with"] = &object.Builtin{Name: "starts_with", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "str.starts_with(s, prefix) takes exactly 2 arguments")
		}
		s, ok1 := args[0].(*object.String)
		prefix, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.starts_with: arguments must be strings")
		}
		return object.NativeBoolToBoolean(strings.HasPrefix(s.Value, prefix.Value))
	}}

	mod.Members["ends_with"] = &object.Builtin{Name: "ends_with", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "str.ends_with(s, suffix) takes exactly 2 arguments")
		}
		s, ok1 := args[0].(*object.String)
		suffix, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.ends_with: arguments must be strings")
		}
		return object.NativeBoolToBoolean(strings.HasSuffix(s.Value, suffix.Value))
	}}

	mod.Members["index_of"] = &object.Builtin{Name: "index_of", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewError(object.INVALID_ARGS, pos, "str.index_of(s, sub) takes exactly 2 arguments")
		}
		s, ok1 := args[0].(*object.String)
		sub, ok2 := args[1].(*object.String)
		if !ok1 || !ok2 {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "str.index_of: arguments must be strings")
		}
		return &object.Integer{Value: int64(strings.Index(s.Value, sub.Value))}
	}}

	env.Define("str", mod, true)
}
