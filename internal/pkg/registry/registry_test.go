package registry

import (
	"errors"
	"testing"
)

type stubCapability struct {
	name string
	deps []string
}

func (c stubCapability) Name() string { return c.name }

type dependentCapability struct {
	stubCapability
}

func (c dependentCapability) DependsOn() []string { return c.deps }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := New()

	if r.Has("breaks") {
		t.Fatal("Has(breaks) = true on empty registry")
	}

	r.Register(stubCapability{name: "breaks"})

	if !r.Has("breaks") {
		t.Fatal("Has(breaks) = false after Register")
	}
	c, ok := r.Get("breaks")
	if !ok || c.Name() != "breaks" {
		t.Fatalf("Get(breaks) = %v, %v", c, ok)
	}
}

func TestRegistry_RegisterReplacesHandle(t *testing.T) {
	r := New()
	r.Register(stubCapability{name: "breaks"})
	r.Register(dependentCapability{stubCapability{name: "breaks"}})

	c, _ := r.Get("breaks")
	if _, ok := c.(DependencyDeclarer); !ok {
		t.Fatal("re-registering did not replace the handle")
	}
}

func TestRegistry_DisableUnknown(t *testing.T) {
	r := New()

	err := r.Disable("breaks")
	if !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("Disable(breaks) = %v, want ErrNotEnabled", err)
	}
}

func TestRegistry_DisableRemoves(t *testing.T) {
	r := New()
	r.Register(stubCapability{name: "breaks"})

	if err := r.Disable("breaks"); err != nil {
		t.Fatalf("Disable(breaks) = %v", err)
	}
	if r.Has("breaks") {
		t.Fatal("capability still enabled after Disable")
	}
}

func TestRegistry_DisableWithDependents(t *testing.T) {
	r := New()
	r.Register(stubCapability{name: "breaks"})
	r.Register(dependentCapability{stubCapability{name: "shift-swaps", deps: []string{"breaks"}}})
	r.Register(dependentCapability{stubCapability{name: "kiosk", deps: []string{"breaks"}}})

	err := r.Disable("breaks")

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Disable(breaks) = %v, want *ConflictError", err)
	}
	if conflict.Name != "breaks" {
		t.Errorf("conflict.Name = %q", conflict.Name)
	}
	if len(conflict.Dependents) != 2 || conflict.Dependents[0] != "kiosk" || conflict.Dependents[1] != "shift-swaps" {
		t.Errorf("conflict.Dependents = %v, want sorted [kiosk shift-swaps]", conflict.Dependents)
	}
	if !r.Has("breaks") {
		t.Error("conflicting Disable removed the capability anyway")
	}
}

func TestRegistry_DisableDependentFirst(t *testing.T) {
	r := New()
	r.Register(stubCapability{name: "breaks"})
	r.Register(dependentCapability{stubCapability{name: "kiosk", deps: []string{"breaks"}}})

	if err := r.Disable("kiosk"); err != nil {
		t.Fatalf("Disable(kiosk) = %v", err)
	}
	if err := r.Disable("breaks"); err != nil {
		t.Fatalf("Disable(breaks) after dependent removed = %v", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := New()
	r.Register(stubCapability{name: "kiosk"})
	r.Register(stubCapability{name: "breaks"})

	names := r.Names()
	if len(names) != 2 || names[0] != "breaks" || names[1] != "kiosk" {
		t.Fatalf("Names() = %v, want [breaks kiosk]", names)
	}
}
