package form

import (
	"errors"
	"reflect"
	"testing"
)

func testSchema() Schema {
	return NewSchema(
		Field{Key: "a", Kind: KindInt},
		Field{Key: "b", Kind: KindString},
		Field{Key: "c", Kind: KindBool},
		Field{Key: "ro", Kind: KindString, ReadOnly: true},
	)
}

type recordingGuard struct {
	changed int
	saved   int
}

func (g *recordingGuard) MarkChanged() { g.changed++ }
func (g *recordingGuard) MarkSaved()   { g.saved++ }

func mustSet(t *testing.T, s *Store, key string, v any) {
	t.Helper()
	if err := s.SetField(key, v); err != nil {
		t.Fatalf("SetField(%q, %v) returned error: %v", key, v, err)
	}
}

func value(t *testing.T, s *Store, key string) Value {
	t.Helper()
	v, ok := s.Value(key)
	if !ok {
		t.Fatalf("Value(%q) missing", key)
	}
	return v
}

func TestApplySnapshot_DirtyFieldProtected(t *testing.T) {
	s := NewStore(testSchema())
	s.Initialize(FieldSet{"a": IntValue(0), "b": StringValue("")})
	mustSet(t, s, "b", "local")

	s.ApplySnapshot(FieldSet{"a": IntValue(7), "b": StringValue("server")})

	if got := value(t, s, "b"); got != StringValue("local") {
		t.Fatalf("dirty b = %v, want local", got)
	}
	if got := value(t, s, "a"); got != IntValue(7) {
		t.Fatalf("clean a = %v, want 7", got)
	}
}

func TestApplySnapshot_CleanFieldSyncsToLatest(t *testing.T) {
	s := NewStore(testSchema())
	s.ApplySnapshot(FieldSet{"a": IntValue(2)})
	s.ApplySnapshot(FieldSet{"a": IntValue(1)})

	if got := value(t, s, "a"); got != IntValue(1) {
		t.Fatalf("a = %v, want 1 (last arrived wins)", got)
	}
}

func TestApplySnapshot_AbsentKeysUntouched(t *testing.T) {
	s := NewStore(testSchema())
	s.Initialize(FieldSet{"a": IntValue(1), "b": StringValue("x")})
	s.ApplySnapshot(FieldSet{"a": IntValue(3)})

	if got := value(t, s, "b"); got != StringValue("x") {
		t.Fatalf("b = %v, want x", got)
	}
}

func TestApplySnapshot_Idempotent(t *testing.T) {
	s := NewStore(testSchema())
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	snap := FieldSet{"a": IntValue(4), "c": BoolValue(true)}
	first := s.ApplySnapshot(snap)
	state := s.CurrentState()
	second := s.ApplySnapshot(snap)

	if !reflect.DeepEqual(first, []string{"a", "c"}) {
		t.Fatalf("first apply changed %v, want [a c]", first)
	}
	if second != nil {
		t.Fatalf("second apply changed %v, want nil", second)
	}
	if !reflect.DeepEqual(state, s.CurrentState()) {
		t.Fatalf("state changed on re-apply: %v vs %v", state, s.CurrentState())
	}
	if len(changes) != 1 {
		t.Fatalf("got %d notifications, want 1", len(changes))
	}
}

func TestApplySnapshot_SkipsUnknownAndMalformed(t *testing.T) {
	s := NewStore(testSchema())
	changed := s.ApplySnapshot(FieldSet{
		"zzz": StringValue("nope"),
		"a":   StringValue("not a number"),
		"b":   StringValue("ok"),
	})
	if !reflect.DeepEqual(changed, []string{"b"}) {
		t.Fatalf("changed = %v, want [b]", changed)
	}
	if _, ok := s.Value("zzz"); ok {
		t.Fatal("unknown key should not be stored")
	}
	if !s.HasSnapshot() {
		t.Fatal("HasSnapshot() = false after ApplySnapshot")
	}
}

func TestApplySnapshot_BeforeInitializeThenInitializeResets(t *testing.T) {
	s := NewStore(testSchema())
	s.ApplySnapshot(FieldSet{"a": IntValue(9)})
	s.Initialize(FieldSet{"a": IntValue(0)})

	if got := value(t, s, "a"); got != IntValue(0) {
		t.Fatalf("a = %v, want defaults after Initialize", got)
	}
	if s.HasSnapshot() {
		t.Fatal("HasSnapshot() should reset on Initialize")
	}
}

func TestBeginSave_ReturnsCompleteState(t *testing.T) {
	s := NewStore(testSchema())
	s.Initialize(FieldSet{"a": IntValue(0), "b": StringValue(""), "c": BoolValue(false)})
	s.ApplySnapshot(FieldSet{"b": StringValue("server")})
	mustSet(t, s, "a", 5)

	got, err := s.BeginSave()
	if err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	want := FieldSet{"a": IntValue(5), "b": StringValue("server"), "c": BoolValue(false)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BeginSave = %v, want %v", got, want)
	}
	if !s.IsDirty("a") {
		t.Fatal("BeginSave must not clear dirty keys")
	}
}

func TestSave_ClearOnSuccess(t *testing.T) {
	s := NewStore(testSchema())
	mustSet(t, s, "a", 1)
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	s.OnSaveSucceeded()

	if s.Dirty() {
		t.Fatalf("dirty keys after success = %v, want none", s.DirtyKeys())
	}
	s.ApplySnapshot(FieldSet{"a": IntValue(2)})
	if got := value(t, s, "a"); got != IntValue(2) {
		t.Fatalf("a = %v, want 2 after save cleared dirtiness", got)
	}
}

func TestSave_NoClearOnFailure(t *testing.T) {
	s := NewStore(testSchema())
	mustSet(t, s, "a", 1)
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	boom := errors.New("boom")
	if err := s.OnSaveFailed(boom); !errors.Is(err, boom) {
		t.Fatalf("OnSaveFailed returned %v, want boom", err)
	}

	if !s.IsDirty("a") {
		t.Fatal("a should stay dirty after failure")
	}
	if got := value(t, s, "a"); got != IntValue(1) {
		t.Fatalf("a = %v, want 1", got)
	}
	if s.Saving() {
		t.Fatal("Saving() = true after failure")
	}
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("retry BeginSave returned error: %v", err)
	}
}

func TestBeginSave_RejectsConcurrentSave(t *testing.T) {
	s := NewStore(testSchema())
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	if _, err := s.BeginSave(); !errors.Is(err, ErrSaveInProgress) {
		t.Fatalf("second BeginSave err = %v, want ErrSaveInProgress", err)
	}
}

func TestOnSaveSucceeded_KeepsEditsMadeDuringSave(t *testing.T) {
	s := NewStore(testSchema())
	mustSet(t, s, "a", 1)
	mustSet(t, s, "b", "first")
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	mustSet(t, s, "b", "second")
	mustSet(t, s, "c", true)
	s.OnSaveSucceeded()

	if got := s.DirtyKeys(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("DirtyKeys = %v, want [b c]", got)
	}
	s.ApplySnapshot(FieldSet{"b": StringValue("first"), "c": BoolValue(false)})
	if got := value(t, s, "b"); got != StringValue("second") {
		t.Fatalf("b = %v, want the edit made during save", got)
	}
}

func TestOnSaveResult_NoopWithoutSave(t *testing.T) {
	s := NewStore(testSchema())
	mustSet(t, s, "a", 1)
	s.OnSaveSucceeded()
	if !s.IsDirty("a") {
		t.Fatal("OnSaveSucceeded without BeginSave must not clear dirty keys")
	}
}

func TestInitialize_DropsInFlightSave(t *testing.T) {
	s := NewStore(testSchema())
	mustSet(t, s, "a", 1)
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	s.Initialize(FieldSet{"a": IntValue(0)})
	if s.Saving() || s.Dirty() {
		t.Fatalf("Initialize left saving=%v dirty=%v", s.Saving(), s.DirtyKeys())
	}
	mustSet(t, s, "a", 3)
	s.OnSaveSucceeded()
	if !s.IsDirty("a") {
		t.Fatal("stale save result cleared a fresh edit")
	}
}

func TestSetField_Errors(t *testing.T) {
	s := NewStore(testSchema())

	if err := s.SetField("missing", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown key err = %v, want ErrUnknownField", err)
	}
	if err := s.SetField("ro", "x"); !errors.Is(err, ErrReadOnlyField) {
		t.Fatalf("read-only err = %v, want ErrReadOnlyField", err)
	}
	if err := s.SetField("a", "seven"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("bad int err = %v, want ErrInvalidValue", err)
	}
	if s.Dirty() {
		t.Fatalf("failed edits dirtied %v", s.DirtyKeys())
	}
}

func TestSetField_CoercesAndMarksDirtyEvenWhenUnchanged(t *testing.T) {
	s := NewStore(testSchema())
	s.Initialize(FieldSet{"a": IntValue(1)})
	mustSet(t, s, "a", "1")
	if !s.IsDirty("a") {
		t.Fatal("edit to the same value should still mark dirty")
	}
	mustSet(t, s, "c", "on")
	if got := value(t, s, "c"); got != BoolValue(true) {
		t.Fatalf("c = %v, want true", got)
	}
}

func TestMatches_ComparesCoercedValues(t *testing.T) {
	s := NewStore(testSchema())
	s.Initialize(FieldSet{"a": IntValue(3), "b": StringValue("x"), "c": BoolValue(true)})

	for _, tc := range []struct {
		key  string
		raw  any
		want bool
	}{
		{"c", "1", true},
		{"c", "yes", true},
		{"c", "0", false},
		{"a", " 3 ", true},
		{"a", float64(3), true},
		{"a", "4", false},
		{"b", "x", true},
		{"b", "y", false},
		{"a", "abc", false},
		{"missing", "x", false},
	} {
		if got := s.Matches(tc.key, tc.raw); got != tc.want {
			t.Errorf("Matches(%q, %v) = %v, want %v", tc.key, tc.raw, got, tc.want)
		}
	}
	if s.Dirty() {
		t.Fatal("Matches must not mutate the form")
	}
}

func TestGuard_Transitions(t *testing.T) {
	g := &recordingGuard{}
	s := NewStore(testSchema(), WithGuard(g))

	mustSet(t, s, "a", 1)
	mustSet(t, s, "b", "x")
	if g.changed != 1 {
		t.Fatalf("MarkChanged calls = %d, want 1", g.changed)
	}
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	s.OnSaveSucceeded()
	if g.saved != 1 {
		t.Fatalf("MarkSaved calls = %d, want 1", g.saved)
	}
	mustSet(t, s, "a", 2)
	if g.changed != 2 {
		t.Fatalf("MarkChanged calls = %d, want 2", g.changed)
	}
	s.Initialize(nil)
	if g.saved != 2 {
		t.Fatalf("MarkSaved calls after Initialize = %d, want 2", g.saved)
	}
}

func TestSubscribe_ReasonsAndCancel(t *testing.T) {
	s := NewStore(testSchema())
	var reasons []Reason
	cancel := s.Subscribe(func(c Change) { reasons = append(reasons, c.Reason) })

	s.Initialize(nil)
	s.ApplySnapshot(FieldSet{"a": IntValue(1)})
	mustSet(t, s, "b", "x")
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	_ = s.OnSaveFailed(errors.New("nope"))
	if _, err := s.BeginSave(); err != nil {
		t.Fatalf("BeginSave returned error: %v", err)
	}
	s.OnSaveSucceeded()

	want := []Reason{
		ReasonInitialize, ReasonSnapshot, ReasonEdit,
		ReasonSaveStarted, ReasonSaveFailed,
		ReasonSaveStarted, ReasonSaveSucceeded,
	}
	if !reflect.DeepEqual(reasons, want) {
		t.Fatalf("reasons = %v, want %v", reasons, want)
	}

	cancel()
	mustSet(t, s, "b", "y")
	if len(reasons) != len(want) {
		t.Fatal("cancelled subscriber was still notified")
	}
}

func TestCurrentState_IsACopy(t *testing.T) {
	s := NewStore(testSchema())
	s.ApplySnapshot(FieldSet{"b": StringValue("x")})
	state := s.CurrentState()
	state["b"] = StringValue("mutated")
	if got := value(t, s, "b"); got != StringValue("x") {
		t.Fatalf("store mutated through CurrentState copy: %v", got)
	}
}
