package view

import (
	"errors"
	"testing"

	"github.com/uniknow/c4puml/pkg/model"
)

func TestViewMembership(t *testing.T) {
	sys := &model.SoftwareSystem{ElementBase: model.ElementBase{ID: "sys"}}
	db := &model.Container{ElementBase: model.ElementBase{ID: "db"}, SoftwareSystem: sys}
	inst := &model.ContainerInstance{ElementBase: model.ElementBase{ID: "db-1"}, Container: db}

	v := &View{Kind: KindDeployment, Key: "live"}
	v.AddElement(inst, true)
	v.AddElement(db, false)
	v.AddElement(inst, false) // ignored, already present

	if len(v.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(v.Elements))
	}
	if v.IsVisible(inst) {
		t.Error("instance should be hidden")
	}
	if !v.IsVisible(db) {
		t.Error("wrapped container should be visible on its own")
	}
	if v.IsVisible(sys) {
		t.Error("element outside the view reported visible")
	}
	if !v.IsHidden(inst) || v.IsHidden(db) || v.IsHidden(sys) {
		t.Error("IsHidden should only report elements explicitly hidden in the view")
	}
	if !v.AnyElement(func(e model.Element) bool { _, ok := e.(*model.ContainerInstance); return ok }) {
		t.Error("AnyElement missed the container instance")
	}
}

func TestViewName(t *testing.T) {
	v := &View{Key: "landscape"}
	if v.Name() != "landscape" {
		t.Errorf("Name() = %q, want key fallback", v.Name())
	}
	v.Title = "System Landscape"
	if v.Name() != "System Landscape" {
		t.Errorf("Name() = %q, want title", v.Name())
	}
}

func TestSet(t *testing.T) {
	s := NewSet(model.New("Big Bank plc"))
	s.Configuration.Styles.AddElementStyle("Database", model.ShapeCylinder)

	v := &View{Key: "containers", Kind: KindContainer}
	if err := s.Add(v); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(&View{Key: "containers"}); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate Add error = %v, want %v", err, ErrDuplicateKey)
	}
	if err := s.Add(&View{}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key Add error = %v, want %v", err, ErrEmptyKey)
	}

	if v.Styles() == nil || len(v.Styles().Elements) != 1 {
		t.Error("view should see the set's styles")
	}
	if got, ok := s.View("containers"); !ok || got != v {
		t.Error("View(containers) lookup failed")
	}
	if v.Model() == nil || v.Model().Enterprise != "Big Bank plc" {
		t.Error("view should reach the set's model")
	}
	if (&View{}).Styles() != nil {
		t.Error("detached view should have nil styles")
	}
}

func TestClone(t *testing.T) {
	p := &model.Person{ElementBase: model.ElementBase{ID: "p"}}
	v := &View{Key: "k"}
	v.AddElement(p, false)

	c := v.Clone()
	c.Elements[0].Hidden = true
	if v.Elements[0].Hidden {
		t.Error("clone shares element slice with original")
	}
}

func TestKindString(t *testing.T) {
	if KindDeployment.String() != "Deployment" {
		t.Errorf("KindDeployment = %q", KindDeployment.String())
	}
	if Kind(42).String() != "Unknown" {
		t.Errorf("Kind(42) = %q", Kind(42).String())
	}
}
