package layer

import (
	"context"
	"testing"
)

type stubLayer struct {
	name  Name
	state State
}

func (s *stubLayer) Name() Name { return s.name }
func (s *stubLayer) Capabilities() Capabilities { return Capabilities{Readable: true} }
func (s *stubLayer) Read(ctx context.Context) State { return s.state }
func (s *stubLayer) Apply(ctx context.Context, t Target) error { return nil }

func TestRegistry_DeclaredOrder(t *testing.T) {
	r := NewRegistry(
		&stubLayer{name: TransparentRedirect},
		&stubLayer{name: ShellEnvironment},
		&stubLayer{name: DesktopConfig},
	)

	want := []Name{ShellEnvironment, DesktopConfig, TransparentRedirect}
	got := r.Layers()
	if len(got) != len(want) {
		t.Fatalf("got %d layers, want %d", len(got), len(want))
	}
	for i, l := range got {
		if l.Name() != want[i] {
			t.Errorf("layer %d = %s, want %s", i, l.Name(), want[i])
		}
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	first := &stubLayer{name: DesktopConfig}
	second := &stubLayer{name: DesktopConfig}
	r := NewRegistry(first, second)

	if len(r.Layers()) != 1 {
		t.Fatalf("got %d layers, want 1", len(r.Layers()))
	}
	l, ok := r.Lookup(DesktopConfig)
	if !ok || l != second {
		t.Error("Lookup should return the last registered layer")
	}
}

func TestRegistry_Select(t *testing.T) {
	r := NewRegistry(
		&stubLayer{name: ShellEnvironment},
		&stubLayer{name: DesktopConfig},
		&stubLayer{name: TransparentRedirect},
	)

	got, err := r.Select(TransparentRedirect, ShellEnvironment)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(got) != 2 || got[0].Name() != ShellEnvironment || got[1].Name() != TransparentRedirect {
		t.Errorf("Select order = %v", got)
	}

	all, _ := r.Select()
	if len(all) != 3 {
		t.Errorf("Select() returned %d layers, want 3", len(all))
	}

	if _, err := NewRegistry(&stubLayer{name: ShellEnvironment}).Select(DesktopConfig); err == nil {
		t.Error("Select of an unregistered layer should fail")
	}
}

func TestRegistry_ReadAll(t *testing.T) {
	r := NewRegistry(
		&stubLayer{name: DesktopConfig, state: State{Layer: DesktopConfig, Enabled: Enabled}},
		&stubLayer{name: ShellEnvironment, state: State{Layer: ShellEnvironment, Enabled: Disabled}},
	)
	states := r.ReadAll(context.Background())
	if len(states) != 2 || states[0].Layer != ShellEnvironment || states[1].Enabled != Enabled {
		t.Errorf("ReadAll = %+v", states)
	}
}

func TestParseName(t *testing.T) {
	for _, s := range []string{"shell", "system", "redsocks"} {
		if _, err := ParseName(s); err != nil {
			t.Errorf("ParseName(%q) error: %v", s, err)
		}
	}
	if _, err := ParseName("kde"); err == nil {
		t.Error("ParseName(kde) should fail")
	}
}

func TestEnablementString(t *testing.T) {
	tests := map[Enablement]string{Unknown: "unknown", Disabled: "disabled", Enabled: "enabled"}
	for e, want := range tests {
		if e.String() != want {
			t.Errorf("%d.String() = %q, want %q", e, e.String(), want)
		}
	}
}
