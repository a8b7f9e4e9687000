// Package pathval implements the filesystem path value kind: a thin
// wrapper over a string that compares by filesystem equivalence rather
// than text equality, joins via the `/` operator, and exposes inspection
// methods (exists, is_dir, size, ...).
package pathval

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aminya/shell-plus-plus/internal/object"
	"github.com/aminya/shell-plus-plus/internal/source"
)

// Path is a path value. It never performs filesystem I/O at
// construction; every attribute below is a zero/one-argument method
// resolved through GetAttr and evaluated lazily when called.
type Path struct {
	raw string
}

func New(s string) *Path { return &Path{raw: s} }

func (p *Path) Type() object.ObjectType  { return object.PATH_OBJ }
func (p *Path) Inspect() string          { return "path(\"" + p.raw + "\")" }
func (p *Path) Truthy() bool             { return p.raw != "" }
func (p *Path) ToDisplayString() string  { return p.raw }
func (p *Path) ToCmdArgument() string    { return p.raw }

func canonical(s string) string {
	abs, err := filepath.Abs(s)
	if err != nil {
		return filepath.Clean(s)
	}
	return filepath.Clean(abs)
}

// EqualTo compares paths by filesystem equivalence (canonicalized form),
// not by literal string equality: "a/b" and "./a/b" are the same path.
func (p *Path) EqualTo(other object.Object) bool {
	var otherRaw string
	switch o := other.(type) {
	case *Path:
		otherRaw = o.raw
	case *object.String:
		otherRaw = o.Value
	default:
		return false
	}
	return canonical(p.raw) == canonical(otherRaw)
}

// Join implements the `/` operator: joining a path with a string or another
// path produces a new path.
func (p *Path) Join(other object.Object, pos source.Position) object.Object {
	switch o := other.(type) {
	case *Path:
		return New(filepath.Join(p.raw, o.raw))
	case *object.String:
		return New(filepath.Join(p.raw, o.Value))
	}
	return object.NewError(object.INCOMPATIBLE_TYPE, pos, "cannot join path with %s", other.Type())
}

// GetAttr resolves one of the inspection methods, each returned as a
// zero-argument (or, for size, zero-or-one-argument) builtin closed over
// this path's raw string.
func (p *Path) GetAttr(name string) (object.Object, bool) {
	mk := func(fn object.BuiltinFunction) (object.Object, bool) {
		return &object.Builtin{Name: name, Fn: fn}, true
	}

	switch name {
	case "exists":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			_, err := os.Stat(p.raw)
			return object.NativeBoolToBoolean(err == nil)
		})
	case "is_regular_file":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			fi, err := os.Stat(p.raw)
			return object.NativeBoolToBoolean(err == nil && fi.Mode().IsRegular())
		})
	case "is_dir":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			fi, err := os.Stat(p.raw)
			return object.NativeBoolToBoolean(err == nil && fi.IsDir())
		})
	case "is_sym_link":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			fi, err := os.Lstat(p.raw)
			return object.NativeBoolToBoolean(err == nil && fi.Mode()&os.ModeSymlink != 0)
		})
	case "is_readable":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return object.NativeBoolToBoolean(syscall.Access(p.raw, 4) == nil)
		})
	case "is_writable":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return object.NativeBoolToBoolean(syscall.Access(p.raw, 2) == nil)
		})
	case "is_exec":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return object.NativeBoolToBoolean(syscall.Access(p.raw, 1) == nil)
		})
	case "uid_owner":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			uid, _, err := p.ownerIDs()
			if err != nil {
				return object.NewError(object.FILE, pos, "%s: %s", p.raw, err.Error())
			}
			return &object.Integer{Value: int64(uid)}
		})
	case "gid_owner":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			_, gid, err := p.ownerIDs()
			if err != nil {
				return object.NewError(object.FILE, pos, "%s: %s", p.raw, err.Error())
			}
			return &object.Integer{Value: int64(gid)}
		})
	case "root_name":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return &object.String{Value: ""}
		})
	case "root_dir":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			if filepath.IsAbs(p.raw) {
				return &object.String{Value: "/"}
			}
			return &object.String{Value: ""}
		})
	case "root_path":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			if filepath.IsAbs(p.raw) {
				return &object.String{Value: "/"}
			}
			return &object.String{Value: ""}
		})
	case "relative_path":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return &object.String{Value: strings.TrimPrefix(p.raw, "/")}
		})
	case "parent_path":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return New(filepath.Dir(p.raw))
		})
	case "filename":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return &object.String{Value: filepath.Base(p.raw)}
		})
	case "stem":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			base := filepath.Base(p.raw)
			ext := filepath.Ext(base)
			return &object.String{Value: strings.TrimSuffix(base, ext)}
		})
	case "extension":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			return &object.String{Value: filepath.Ext(filepath.Base(p.raw))}
		})
	case "absolute":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			abs, err := filepath.Abs(p.raw)
			if err != nil {
				return object.NewError(object.FILE, pos, "%s: %s", p.raw, err.Error())
			}
			return New(abs)
		})
	case "size":
		return mk(func(pos source.Position, args ...object.Object) object.Object {
			n, err := p.sizeBytes()
			if err != nil {
				return object.NewError(object.FILE, pos, "%s: %s", p.raw, err.Error())
			}
			if len(args) == 0 {
				return &object.Integer{Value: n}
			}
			unit, ok := args[0].(*object.String)
			if !ok {
				return object.NewError(object.INVALID_ARGS, pos, "size: unit must be a string")
			}
			divisors := map[string]float64{"k": 1024, "M": 1024 * 1024, "G": 1024 * 1024 * 1024}
			div, ok := divisors[unit.Value]
			if !ok {
				return object.NewError(object.INVALID_ARGS, pos, "size: unknown unit %q", unit.Value)
			}
			return &object.Real{Value: float64(n) / div}
		})
	}
	return nil, false
}

func (p *Path) ownerIDs() (uid, gid uint32, err error) {
	fi, statErr := os.Stat(p.raw)
	if statErr != nil {
		return 0, 0, statErr
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, os.ErrInvalid
	}
	return st.Uid, st.Gid, nil
}

// sizeBytes is a file's byte count, or a directory's recursive sum of its
// regular files' sizes.
func (p *Path) sizeBytes() (int64, error) {
	fi, err := os.Stat(p.raw)
	if err != nil {
		return 0, err
	}
	if !fi.IsDir() {
		return fi.Size(), nil
	}
	var total int64
	err = filepath.Walk(p.raw, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// Register binds the "path" module into env: path("str") constructs a
// value (dispatched through Module's "__call__" convention), path.pwd()
// returns the current working directory as a path.
func Register(env *object.Environment) {
	mod := &object.Module{Name: "path", Members: map[string]object.Object{}}
	mod.Members["pwd"] = &object.Builtin{Name: "pwd", Fn: func(pos source.Position, args ...object.Object) object.Object {
		wd, err := os.Getwd()
		if err != nil {
			return object.NewError(object.FILE, pos, "pwd: %s", err.Error())
		}
		return New(wd)
	}}
	mod.Members["__call__"] = &object.Builtin{Name: "path", Fn: func(pos source.Position, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewError(object.INVALID_ARGS, pos, "path() takes exactly 1 argument, got %d", len(args))
		}
		s, ok := args[0].(*object.String)
		if !ok {
			return object.NewError(object.INCOMPATIBLE_TYPE, pos, "path() argument must be a string, got %s", args[0].Type())
		}
		return New(s.Value)
	}}
	env.Define("path", mod, true)
}
