package runtime

import "testing"

func TestValueKinds(t *testing.T) {
	cases := []struct {
		value Value
		kind  Kind
		name  string
	}{
		{NilValue{}, KindNil, "nil"},
		{BoolValue{Val: true}, KindBool, "bool"},
		{IntegerValue{Val: 3}, KindInteger, "integer"},
		{ByteValue{Val: 'a'}, KindByte, "byte"},
		{StringValue{Handle: 1}, KindString, "String"},
		{ListValue{Handle: 2}, KindList, "List"},
		{&HostHandleValue{HandleType: "file"}, KindHostHandle, "host_handle"},
	}
	for _, tc := range cases {
		if tc.value.Kind() != tc.kind {
			t.Fatalf("%T.Kind() = %v, want %v", tc.value, tc.value.Kind(), tc.kind)
		}
		if tc.kind.String() != tc.name {
			t.Fatalf("Kind(%d).String() = %q, want %q", int(tc.kind), tc.kind.String(), tc.name)
		}
	}
	if got := Kind(99).String(); got != "unknown_kind_99" {
		t.Fatalf("unknown kind = %q", got)
	}
}

func TestEqualComparesHostHandlesByIdentity(t *testing.T) {
	a := &HostHandleValue{HandleType: "h", Value: 1}
	b := &HostHandleValue{HandleType: "h", Value: 1}
	if !Equal(a, a) {
		t.Fatalf("handle not equal to itself")
	}
	if Equal(a, b) {
		t.Fatalf("distinct handles with equal payloads compared equal")
	}
	if !Equal(IntegerValue{Val: 5}, IntegerValue{Val: 5}) {
		t.Fatalf("equal integers compared unequal")
	}
	if Equal(IntegerValue{Val: 1}, ByteValue{Val: 1}) {
		t.Fatalf("values of different kinds compared equal")
	}
	if !Equal(nil, nil) || Equal(nil, NilValue{}) {
		t.Fatalf("nil interface handling is wrong")
	}
	if Equal(ListValue{Handle: 1}, StringValue{Handle: 1}) {
		t.Fatalf("list and string with same handle compared equal")
	}
}

func TestDescribe(t *testing.T) {
	cases := map[string]Value{
		"nil":               NilValue{},
		"true":              BoolValue{Val: true},
		"-4":                IntegerValue{Val: -4},
		"'x'":               ByteValue{Val: 'x'},
		"List#3":            ListValue{Handle: 3},
		"String#8":          StringValue{Handle: 8},
		"host_handle(file)": &HostHandleValue{HandleType: "file"},
	}
	for want, v := range cases {
		if got := Describe(v); got != want {
			t.Fatalf("Describe(%#v) = %q, want %q", v, got, want)
		}
	}
}
