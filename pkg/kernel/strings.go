package kernel

import (
	"fmt"

	"able/kernel-go/pkg/bytestr"
	"able/kernel-go/pkg/runtime"
)

// StringNew stores a terminator-delimited byte buffer and returns its handle.
func (k *Kernel) StringNew(data []byte) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.storeString(bytestr.FromTerminated(data))
}

func (k *Kernel) storeString(s bytestr.String) (int64, error) {
	if limit := k.cfg.StringMaxLen; limit > 0 && s.Len() > limit {
		err := &runtime.AllocationError{Container: "string", Requested: s.Len(), Limit: limit}
		return 0, k.fault(faultAllocation, err, fmt.Sprintf("Cannot allocate string of %d bytes!", s.Len()))
	}
	handle := k.allocHandle()
	k.strings[handle] = s
	k.metrics.ObserveStringAlloc(s.Len())
	return handle, nil
}

func (k *Kernel) stringForHandle(handle int64) (bytestr.String, error) {
	s, ok := k.strings[handle]
	if !ok {
		err := &runtime.HandleError{Kind: runtime.KindString, Handle: handle}
		return bytestr.String{}, k.fault(faultHandle, err, fmt.Sprintf("Invalid string handle %d!", handle))
	}
	return s, nil
}

// StringAdd concatenates the string with a terminator-delimited suffix and
// returns the handle of the new string. The operand is left untouched.
func (k *Kernel) StringAdd(handle int64, suffix []byte) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, err := k.stringForHandle(handle)
	if err != nil {
		return 0, err
	}
	out, err := s.ConcatBytes(suffix)
	if err != nil {
		return 0, k.fault(faultAllocation, err, fmt.Sprintf("Cannot allocate string: %v!", err))
	}
	return k.storeString(out)
}

// StringConcat concatenates two kernel strings.
func (k *Kernel) StringConcat(handle, suffix int64) (int64, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, err := k.stringForHandle(handle)
	if err != nil {
		return 0, err
	}
	tail, err := k.stringForHandle(suffix)
	if err != nil {
		return 0, err
	}
	out, err := s.Concat(tail)
	if err != nil {
		return 0, k.fault(faultAllocation, err, fmt.Sprintf("Cannot allocate string: %v!", err))
	}
	return k.storeString(out)
}

func (k *Kernel) StringLength(handle int64) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, err := k.stringForHandle(handle)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}

// StringAt returns the byte at index.
func (k *Kernel) StringAt(handle int64, index int) (byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, err := k.stringForHandle(handle)
	if err != nil {
		return 0, err
	}
	b, err := s.At(index)
	if err != nil {
		return 0, k.fault(faultIndex, err, fmt.Sprintf("Cannot get string byte at index %d!", index))
	}
	return b, nil
}

// StringBytes returns a copy of the string contents.
func (k *Kernel) StringBytes(handle int64) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, err := k.stringForHandle(handle)
	if err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}
