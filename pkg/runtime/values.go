package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInteger
	KindByte
	KindString
	KindList
	KindHostHandle
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindByte:
		return "byte"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindHostHandle:
		return "host_handle"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Dynamic lists store
// Values; the kind tag replaces the untyped pointer slots of a C runtime.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type ByteValue struct {
	Val byte
}

func (v ByteValue) Kind() Kind { return KindByte }

//-----------------------------------------------------------------------------
// Kernel-backed containers
//-----------------------------------------------------------------------------

// StringValue names a byte string owned by a kernel handle table.
type StringValue struct {
	Handle int64
}

func (v StringValue) Kind() Kind { return KindString }

// ListValue names a dynamic list owned by a kernel handle table.
type ListValue struct {
	Handle int64
}

func (v ListValue) Kind() Kind { return KindList }

// HostHandleValue carries opaque host handles across extern boundaries. The
// runtime never inspects Value.
type HostHandleValue struct {
	HandleType string
	Value      any
}

func (v *HostHandleValue) Kind() Kind { return KindHostHandle }

// Equal reports whether two values are identical. Host handles compare by
// identity, containers by handle.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *HostHandleValue:
		bv, ok := b.(*HostHandleValue)
		return ok && av == bv
	default:
		return a == b
	}
}

// Describe renders a value for diagnostics.
func Describe(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case NilValue:
		return "nil"
	case BoolValue:
		return fmt.Sprintf("%t", val.Val)
	case IntegerValue:
		return fmt.Sprintf("%d", val.Val)
	case ByteValue:
		return fmt.Sprintf("%q", rune(val.Val))
	case StringValue:
		return fmt.Sprintf("String#%d", val.Handle)
	case ListValue:
		return fmt.Sprintf("List#%d", val.Handle)
	case *HostHandleValue:
		if val == nil {
			return "host_handle(nil)"
		}
		return fmt.Sprintf("host_handle(%s)", val.HandleType)
	default:
		return fmt.Sprintf("%v", v)
	}
}
