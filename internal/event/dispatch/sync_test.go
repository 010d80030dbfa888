package dispatch

import (
	"errors"
	"sort"
	"testing"

	"github.com/dshills/shotgun/internal/event/directory"
)

// recorder builds listeners that record their name when invoked.
type recorder struct {
	calls []string
	args  [][]any
}

func (r *recorder) listener(name string) directory.Listener {
	return func(args ...any) error {
		r.calls = append(r.calls, name)
		r.args = append(r.args, args)
		return nil
	}
}

func (r *recorder) sorted() []string {
	out := append([]string(nil), r.calls...)
	sort.Strings(out)
	return out
}

func buildTree(r *recorder) *directory.Directory {
	root := directory.NewRoot("user")
	ab, _ := root.Ensure([]string{"a", "b"})
	ab.Set("k", r.listener("ab"))
	abc, _ := root.Ensure([]string{"a", "b", "c"})
	abc.Set("k", r.listener("abc"))
	abc.Set("other", r.listener("abc-other"))
	ad, _ := root.Ensure([]string{"a", "d"})
	ad.Set("k", r.listener("ad"))
	return root
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResult_Predicates(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		success bool
		isErr   bool
		isPanic bool
	}{
		{"success", Result{Success: true}, true, false, false},
		{"error", Result{Error: errors.New("error")}, false, true, false},
		{"panic", Result{Panicked: true, PanicValue: "boom"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.IsSuccess(); got != tt.success {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.success)
			}
			if got := tt.result.IsError(); got != tt.isErr {
				t.Errorf("IsError() = %v, want %v", got, tt.isErr)
			}
			if got := tt.result.IsPanic(); got != tt.isPanic {
				t.Errorf("IsPanic() = %v, want %v", got, tt.isPanic)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	r := &recorder{}
	root := buildTree(r)
	a, _ := root.Resolve([]string{"a"})
	ab, _ := root.Resolve([]string{"a", "b"})

	tests := []struct {
		name      string
		dir       *directory.Directory
		key       string
		recursive bool
		want      []string
	}{
		{"nil directory", nil, "", true, nil},
		{"own listeners only", a, "", false, nil},
		{"recursive subtree", a, "", true, []string{"ab", "abc", "abc-other", "ad"}},
		{"keyed", ab, "k", false, []string{"ab"}},
		{"keyed ignores recursion", ab, "k", true, []string{"ab"}},
		{"missing key", ab, "nope", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.calls = nil
			entries := Collect(tt.dir, tt.key, tt.recursive)
			for _, e := range entries {
				_ = e.Fn()
			}
			if got := r.sorted(); !equal(got, tt.want) {
				t.Errorf("invoked %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollect_DirectoryBeforeChildren(t *testing.T) {
	r := &recorder{}
	root := buildTree(r)
	ab, _ := root.Resolve([]string{"a", "b"})

	entries := Collect(ab, "", true)
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Path != "a/b" || entries[0].Key != "k" {
		t.Errorf("first entry = %s/%s, want a/b/k", entries[0].Path, entries[0].Key)
	}
	for _, e := range entries[1:] {
		if e.Path != "a/b/c" {
			t.Errorf("entry path = %s, want a/b/c", e.Path)
		}
	}
}

func TestSyncDispatcher_Stats(t *testing.T) {
	r := &recorder{}
	root := buildTree(r)
	d := NewSyncDispatcher()

	ab, _ := root.Resolve([]string{"a", "b"})
	n, err := d.Invoke(Collect(ab, "", false), []any{1, "two"})
	if err != nil || n != 1 {
		t.Fatalf("Invoke = %d, %v", n, err)
	}
	if len(r.args) != 1 || r.args[0][0] != 1 || r.args[0][1] != "two" {
		t.Errorf("args = %v", r.args)
	}

	n, err = d.Invoke(Collect(nil, "", false), nil)
	if n != 0 || err != nil {
		t.Errorf("Invoke(nil) = %d, %v; want 0, nil", n, err)
	}

	stats := d.Stats()
	if stats.Dispatched != 2 || stats.Invoked != 1 || stats.Missed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSyncDispatcher_ErrorStopsDispatch(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	entries := []Entry{
		{Path: "a", Key: "1", Fn: func(...any) error { calls++; return nil }},
		{Path: "a", Key: "2", Fn: func(...any) error { calls++; return boom }},
		{Path: "a", Key: "3", Fn: func(...any) error { calls++; return nil }},
	}

	d := NewSyncDispatcher()
	n, err := d.Invoke(entries, nil)
	if n != 2 || calls != 2 {
		t.Errorf("invoked = %d, calls = %d; want 2, 2", n, calls)
	}

	var lerr *ListenerError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want *ListenerError", err)
	}
	if lerr.Key != "2" || lerr.Path != "a" || !errors.Is(err, boom) {
		t.Errorf("ListenerError = %+v", lerr)
	}
	if d.Stats().Failed != 1 {
		t.Errorf("Failed = %d, want 1", d.Stats().Failed)
	}
}

func TestSyncDispatcher_PanicPropagates(t *testing.T) {
	d := NewSyncDispatcher()
	entries := []Entry{{Path: "a", Key: "p", Fn: func(...any) error { panic("listener panic") }}}

	defer func() {
		if r := recover(); r != "listener panic" {
			t.Errorf("recovered %v, want listener panic", r)
		}
	}()
	_, _ = d.Invoke(entries, nil)
	t.Error("Invoke should not recover listener panics")
}

func TestRecover(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func() error
		success bool
		err     error
		panics  bool
	}{
		{"success", func() error { return nil }, true, nil, false},
		{"error", func() error { return boom }, false, boom, false},
		{"panic", func() error { panic("oops") }, false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Recover(tt.fn)
			if res.Success != tt.success {
				t.Errorf("Success = %v, want %v", res.Success, tt.success)
			}
			if !errors.Is(res.Error, tt.err) {
				t.Errorf("Error = %v, want %v", res.Error, tt.err)
			}
			if res.Panicked != tt.panics {
				t.Errorf("Panicked = %v, want %v", res.Panicked, tt.panics)
			}
			if tt.panics && (res.PanicValue != "oops" || len(res.PanicStack) == 0) {
				t.Errorf("panic details = %v, %d bytes of stack", res.PanicValue, len(res.PanicStack))
			}
		})
	}
}

func TestCollect_ChildrenByName(t *testing.T) {
	r := &recorder{}
	root := buildTree(r)
	root.Ensure([]string{"a", "0"})
	a, _ := root.Resolve([]string{"a"})

	for i := 0; i < 20; i++ {
		r.calls = nil
		for _, e := range Collect(a, "", true) {
			_ = e.Fn()
		}
		if want := []string{"ab", "abc", "abc-other", "ad"}; !equal(r.calls, want) {
			t.Fatalf("invoked %v, want %v", r.calls, want)
		}
	}
}
