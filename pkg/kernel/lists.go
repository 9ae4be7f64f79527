package kernel

import (
	"fmt"

	"able/kernel-go/pkg/list"
	"able/kernel-go/pkg/runtime"
)

// ListNew creates an empty list and returns its handle.
func (k *Kernel) ListNew() int64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	handle := k.allocHandle()
	opts := []list.Option{list.WithGrowth(k.cfg.ListGrowth), list.WithMaxLen(k.cfg.ListMaxLen)}
	if k.metrics != nil {
		opts = append(opts, list.WithObserver(k.metrics))
	}
	k.lists[handle] = list.New[runtime.Value](opts...)
	return handle
}

func (k *Kernel) listForHandle(handle int64) (*list.List[runtime.Value], error) {
	l, ok := k.lists[handle]
	if !ok {
		err := &runtime.HandleError{Kind: runtime.KindList, Handle: handle}
		return nil, k.fault(faultHandle, err, fmt.Sprintf("Invalid list handle %d!", handle))
	}
	return l, nil
}

// ListAppend stores value as the new last item of the list.
func (k *Kernel) ListAppend(handle int64, value runtime.Value) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, err := k.listForHandle(handle)
	if err != nil {
		return err
	}
	if value == nil {
		value = runtime.NilValue{}
	}
	if err := l.Append(value); err != nil {
		return k.fault(faultAllocation, err, fmt.Sprintf("Cannot append to list %d: %v!", handle, err))
	}
	return nil
}

// ListAt returns the item at index. Under the abort policy an invalid index
// terminates the process with "Cannot get list item at index <N>!".
func (k *Kernel) ListAt(handle int64, index int) (runtime.Value, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, err := k.listForHandle(handle)
	if err != nil {
		return nil, err
	}
	val, err := l.At(index)
	if err != nil {
		return nil, k.fault(faultIndex, err, fmt.Sprintf("Cannot get list item at index %d!", index))
	}
	return val, nil
}

func (k *Kernel) ListLen(handle int64) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, err := k.listForHandle(handle)
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// ListItems returns a copy of the list contents.
func (k *Kernel) ListItems(handle int64) ([]runtime.Value, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, err := k.listForHandle(handle)
	if err != nil {
		return nil, err
	}
	return l.Items(), nil
}
