package plantuml

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

func base(id, name, desc string) model.ElementBase {
	return model.ElementBase{ID: id, Name: name, Description: desc}
}

func mustAdd(t *testing.T, m *model.Model, elems ...model.Element) {
	t.Helper()
	for _, e := range elems {
		if err := m.Add(e); err != nil {
			t.Fatalf("Add(%s): %v", model.ID(e), err)
		}
	}
}

func mustRel(t *testing.T, m *model.Model, id string, src, dst model.Element, desc, tech string) *model.Relationship {
	t.Helper()
	r := &model.Relationship{ID: id, Source: src, Destination: dst, Description: desc, Technology: tech}
	if err := m.AddRelationship(r); err != nil {
		t.Fatalf("AddRelationship(%s): %v", id, err)
	}
	return r
}

func mustView(t *testing.T, set *view.Set, v *view.View, elems ...model.Element) *view.View {
	t.Helper()
	for _, e := range elems {
		v.AddElement(e, false)
	}
	if err := set.Add(v); err != nil {
		t.Fatalf("Set.Add(%s): %v", v.Key, err)
	}
	return v
}

func mustExport(t *testing.T, e *Exporter, v *view.View) *Diagram {
	t.Helper()
	d, err := e.ExportView(v)
	if err != nil {
		t.Fatalf("ExportView(%s): %v", v.Key, err)
	}
	return d
}

// hasLine reports whether def contains want as a whole line, ignoring indentation.
func hasLine(def, want string) bool {
	for _, l := range strings.Split(def, "\n") {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}

func lineIndex(def, want string) int {
	for i, l := range strings.Split(def, "\n") {
		if strings.TrimSpace(l) == want {
			return i
		}
	}
	return -1
}

func TestExternalPerson(t *testing.T) {
	m := model.New("")
	p := &model.Person{ElementBase: base("customer", "Customer", "Uses the system"), Location: model.LocationExternal}
	mustAdd(t, m, p)

	set := view.NewSet(m)
	v := mustView(t, set, &view.View{Kind: view.KindSystemContext, Key: "context"}, p)

	d := mustExport(t, New(), v)
	want := `Person_Ext(customer, "Customer", "Uses the system")`
	if !hasLine(d.Definition, want) {
		t.Errorf("missing %q in:\n%s", want, d.Definition)
	}
}

func TestElementDispatch(t *testing.T) {
	sys := &model.SoftwareSystem{ElementBase: base("sys", "Shop", "Sells things")}
	ext := &model.SoftwareSystem{ElementBase: base("pay", "Payments", ""), Location: model.LocationExternal}
	user := &model.Person{ElementBase: base("user", "User", "")}
	api := &model.Container{ElementBase: base("api", "API", "Serves JSON"), Technology: "Go", SoftwareSystem: sys}
	web := &model.Container{ElementBase: base("web", "Web", "Serves HTML"), SoftwareSystem: sys}
	db := &model.Container{ElementBase: base("db", "Database", "Stores data"), SoftwareSystem: sys}
	db.Tags = []string{"Database"}
	queue := &model.Container{ElementBase: base("q", "Events", "Carries events"), Technology: "Kafka", SoftwareSystem: sys}
	queue.Tags = []string{"Queue"}
	ctrl := &model.Component{ElementBase: base("ctrl", "Controller", "Handles requests"), Technology: "chi", Container: api}
	repo := &model.Component{ElementBase: base("repo", "Repository", "Talks SQL"), Container: api}
	uc := &model.Component{ElementBase: base("checkout", "Checkout", "Buys things"), Technology: "flow", Container: api}
	uc.Tags = []string{model.TagUseCase}

	m := model.New("")
	mustAdd(t, m, sys, ext, user, api, web, db, queue, ctrl, repo, uc)

	set := view.NewSet(m)
	set.Configuration.Styles.AddElementStyle("Database", model.ShapeCylinder)
	set.Configuration.Styles.AddElementStyle("Queue", model.ShapePipe)
	containers := mustView(t, set, &view.View{Kind: view.KindContainer, Key: "containers"}, user, ext, api, web, db, queue)
	components := mustView(t, set, &view.View{Kind: view.KindComponent, Key: "components"}, ctrl, repo, uc)

	e := New()
	cd := mustExport(t, e, containers)
	kd := mustExport(t, e, components)

	tests := []struct {
		def  string
		want string
	}{
		{cd.Definition, `Person(user, "User", "")`},
		{cd.Definition, `System_Ext(pay, "Payments", "")`},
		{cd.Definition, `Container(api, "API", "Go", "Serves JSON")`},
		{cd.Definition, `Container(web, "Web", "Serves HTML")`},
		{cd.Definition, `ContainerDb(db, "Database", "Stores data")`},
		{cd.Definition, `ContainerQueue(q, "Events", "Kafka", "Carries events")`},
		{cd.Definition, `System_Boundary("sys_boundary", "Shop") {`},
		{kd.Definition, `Container_Boundary("api_boundary", "API") {`},
		{kd.Definition, `Component(ctrl, "Controller", "chi", "Handles requests")`},
		{kd.Definition, `Component(repo, "Repository", "Talks SQL")`},
		{kd.Definition, `UseCase(checkout, "Checkout", "flow", "Buys things")`},
	}
	for _, tt := range tests {
		if !hasLine(tt.def, tt.want) {
			t.Errorf("missing %q in:\n%s", tt.want, tt.def)
		}
	}
}

func TestResponseRelationship(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	b := &model.SoftwareSystem{ElementBase: base("b", "B", "")}
	m := model.New("")
	mustAdd(t, m, a, b)
	r := mustRel(t, m, "ab", a, b, "Requests data", "HTTPS")

	set := view.NewSet(m)
	v := mustView(t, set, &view.View{Kind: view.KindDynamic, Key: "dynamic"}, a, b)
	v.AddRelationship(view.RelationshipView{Relationship: r, Order: "1"})
	v.AddRelationship(view.RelationshipView{Relationship: r, Order: "2", Description: "Returns data", Response: true})

	d := mustExport(t, New(), v)
	for _, want := range []string{
		`Rel_D(a, b, "1. Requests data", "HTTPS")`,
		`Rel_D(b, a, "2. Returns data", "HTTPS")`,
	} {
		if !hasLine(d.Definition, want) {
			t.Errorf("missing %q in:\n%s", want, d.Definition)
		}
	}
}

func TestRelationshipDescription(t *testing.T) {
	r := &model.Relationship{Description: "Uses"}
	tests := []struct {
		name string
		rv   view.RelationshipView
		want string
	}{
		{"relationship", view.RelationshipView{Relationship: r}, "Uses"},
		{"override", view.RelationshipView{Relationship: r, Description: "Calls"}, "Calls"},
		{"ordered", view.RelationshipView{Relationship: r, Order: "3"}, "3. Uses"},
		{"empty", view.RelationshipView{Relationship: &model.Relationship{}}, ""},
		{"order only", view.RelationshipView{Relationship: &model.Relationship{}, Order: "1"}, "1. "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relationshipDescription(tt.rv); got != tt.want {
				t.Errorf("relationshipDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContainerIncludeOnce(t *testing.T) {
	sys := &model.SoftwareSystem{ElementBase: base("sys", "Shop", "")}
	api := &model.Container{ElementBase: base("api", "API", ""), SoftwareSystem: sys}
	web := &model.Container{ElementBase: base("web", "Web", ""), SoftwareSystem: sys}
	node := &model.DeploymentNode{ElementBase: base("node", "Server", ""), Instances: 1}
	inst := &model.ContainerInstance{ElementBase: base("api-1", "", ""), Parent: node, Container: api}

	m := model.New("")
	mustAdd(t, m, sys, api, web, node, inst)
	set := view.NewSet(m)
	containers := mustView(t, set, &view.View{Kind: view.KindContainer, Key: "containers"}, api, web)
	deploy := mustView(t, set, &view.View{Kind: view.KindDeployment, Key: "deployment"}, node, inst)

	e := New()
	for _, v := range []*view.View{containers, deploy} {
		d := mustExport(t, e, v)
		if n := strings.Count(d.Definition, IncludeContainer); n != 1 {
			t.Errorf("%s: container include appears %d times, want 1", v.Key, n)
		}
		if strings.Contains(d.Definition, IncludeComponent) {
			t.Errorf("%s: unexpected component include", v.Key)
		}
	}
	if d := mustExport(t, e, deploy); !hasLine(d.Definition, "!includeurl "+IncludeDeployment) {
		t.Errorf("deployment view without deployment include:\n%s", d.Definition)
	}
}

func TestIncludeRegistration(t *testing.T) {
	e := New()
	url := "https://example.com/theme.puml"
	if err := e.AddIncludeURL(url, "theme"); err != nil {
		t.Fatalf("AddIncludeURL: %v", err)
	}
	if err := e.AddIncludeURL(url, "other"); err != nil {
		t.Fatalf("duplicate AddIncludeURL: %v", err)
	}
	if err := e.AddIncludeFile("styles/custom.puml", "custom"); err != nil {
		t.Fatalf("AddIncludeFile: %v", err)
	}
	if err := e.AddIncludeFile("styles/custom.puml", "again"); err != nil {
		t.Fatalf("duplicate AddIncludeFile: %v", err)
	}

	v := &view.View{Kind: view.KindSystemLandscape, Key: "landscape"}
	got := e.Includes(v)
	want := []Include{
		{Label: "C4", Locator: IncludeC4},
		{Label: "C4_Context", Locator: IncludeContext},
		{Label: "theme", Locator: url},
		{Label: "custom", Locator: "styles/custom.puml", File: true},
	}
	if len(got) != len(want) {
		t.Fatalf("Includes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Includes()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if got[3].Directive() != "!include styles/custom.puml" {
		t.Errorf("file directive = %q", got[3].Directive())
	}
	if got[2].Directive() != "!includeurl "+url {
		t.Errorf("url directive = %q", got[2].Directive())
	}
}

func TestIncludeRegistrationInvalid(t *testing.T) {
	e := New()
	for _, raw := range []string{"", "theme.puml", "ftp://example.com/theme.puml", "https://"} {
		err := e.AddIncludeURL(raw, "x")
		if !c4errors.Is(err, c4errors.ErrCodeInvalidInclude) {
			t.Errorf("AddIncludeURL(%q) = %v, want %s", raw, err, c4errors.ErrCodeInvalidInclude)
		}
	}
	if err := e.AddIncludeFile("  ", "x"); !c4errors.Is(err, c4errors.ErrCodeInvalidInclude) {
		t.Errorf("AddIncludeFile(blank) = %v, want %s", err, c4errors.ErrCodeInvalidInclude)
	}
	if n := len(e.Includes(&view.View{Key: "v"})); n != 2 {
		t.Errorf("invalid registrations leaked into includes: %d entries", n)
	}
}

func TestHeader(t *testing.T) {
	e := New(WithLegend(true))
	v := &view.View{Kind: view.KindSystemLandscape, Key: "landscape", Title: "All systems", Description: "Line one\nline two"}
	d := mustExport(t, e, v)

	lines := strings.Split(d.Definition, "\n")
	want := []string{
		"@startuml",
		"title All systems",
		`caption Line one\nline two`,
		"",
		"!includeurl " + IncludeC4,
		"!includeurl " + IncludeContext,
		LegendDirective,
		"",
		"@enduml",
	}
	if len(lines) < len(want) {
		t.Fatalf("got %d lines, want at least %d:\n%s", len(lines), len(want), d.Definition)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("header line %d = %q, want %q\n%s", i, lines[i], w, d.Definition)
		}
	}

	e.SetLegend(false)
	if d := mustExport(t, e, v); strings.Contains(d.Definition, LegendDirective) {
		t.Error("legend written after SetLegend(false)")
	}
}

func TestBoundaryClosesOnError(t *testing.T) {
	r := New().newRenderer(&view.View{Key: "v"})
	boom := stderrors.New("boom")
	err := r.boundary("Boundary(x) {", func() error {
		r.w.line("inner")
		return r.boundary("Boundary(y) {", func() error { return boom })
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("boundary error = %v, want %v", err, boom)
	}
	if !r.w.balanced() {
		t.Fatalf("depth = %d after failing body", r.w.depth)
	}
	if got := strings.Count(r.w.String(), "}\n"); got != 2 {
		t.Errorf("closed %d blocks, want 2:\n%s", got, r.w.String())
	}
}

func TestUnbalancedIsInternal(t *testing.T) {
	r := New().newRenderer(&view.View{Key: "v"})
	r.w.indent()
	if _, err := r.finish(); !c4errors.Is(err, c4errors.ErrCodeInternal) {
		t.Errorf("finish() = %v, want %s", err, c4errors.ErrCodeInternal)
	}

	r = New().newRenderer(&view.View{Key: "v"})
	r.w.outdent()
	if _, err := r.finish(); !c4errors.Is(err, c4errors.ErrCodeInternal) {
		t.Errorf("finish() after underflow = %v, want %s", err, c4errors.ErrCodeInternal)
	}
}

func TestExportContinuesPastFailedView(t *testing.T) {
	sys := &model.SoftwareSystem{ElementBase: base("sys", "Shop", "")}
	node := &model.DeploymentNode{ElementBase: base("node", "Server", "")}
	m := model.New("")
	mustAdd(t, m, sys, node)

	set := view.NewSet(m)
	mustView(t, set, &view.View{Kind: view.KindContainer, Key: "broken"}, sys, node)
	mustView(t, set, &view.View{Kind: view.KindSystemLandscape, Key: "fine"}, sys)

	ds, err := New().Export(set)
	if !c4errors.Is(err, c4errors.ErrCodeUnsupportedElement) {
		t.Fatalf("Export error = %v, want %s", err, c4errors.ErrCodeUnsupportedElement)
	}
	if !strings.Contains(err.Error(), "view broken") {
		t.Errorf("error %q does not name the failed view", err)
	}
	if len(ds) != 1 || ds[0].Key != "fine" {
		t.Fatalf("Export diagrams = %v, want only \"fine\"", ds)
	}
}

func TestDanglingInstanceIsUnsupported(t *testing.T) {
	node := &model.DeploymentNode{ElementBase: base("node", "Server", "")}
	inst := &model.ContainerInstance{ElementBase: base("ghost", "", ""), Parent: node}
	v := &view.View{Kind: view.KindDeployment, Key: "deployment"}
	v.AddElement(node, false)
	v.AddElement(inst, false)

	_, err := New().ExportView(v)
	if !c4errors.Is(err, c4errors.ErrCodeUnsupportedElement) {
		t.Errorf("ExportView() = %v, want %s", err, c4errors.ErrCodeUnsupportedElement)
	}
}

func TestEveryViewKindIsBalanced(t *testing.T) {
	user := &model.Person{ElementBase: base("user", "User", ""), Location: model.LocationInternal}
	sys := &model.SoftwareSystem{ElementBase: base("sys", "Shop", ""), Location: model.LocationInternal}
	sys.Group = "Core"
	api := &model.Container{ElementBase: base("api", "API", ""), SoftwareSystem: sys}
	api.Group = "Backend"
	comp := &model.Component{ElementBase: base("comp", "Handler", ""), Container: api}
	comp.Group = "HTTP"
	outer := &model.DeploymentNode{ElementBase: base("outer", "Region", ""), Instances: 1}
	inner := &model.DeploymentNode{ElementBase: base("inner", "Host", ""), Instances: 2, Parent: outer}
	inst := &model.ContainerInstance{ElementBase: base("api-1", "", ""), Parent: inner, Container: api}

	m := model.New("Acme")
	mustAdd(t, m, user, sys, api, comp, outer, inner, inst)
	r := mustRel(t, m, "", user, sys, "Uses", "")

	set := view.NewSet(m)
	mustView(t, set, &view.View{Kind: view.KindSystemLandscape, Key: "landscape", EnterpriseBoundaryVisible: true}, user, sys)
	mustView(t, set, &view.View{Kind: view.KindContainer, Key: "containers"}, user, api)
	mustView(t, set, &view.View{Kind: view.KindComponent, Key: "components"}, api, comp)
	mustView(t, set, &view.View{Kind: view.KindDeployment, Key: "deployment"}, outer, inner, inst)
	dyn := mustView(t, set, &view.View{Kind: view.KindDynamic, Key: "dynamic", SoftwareSystem: sys}, user, api)
	dyn.AddRelationship(view.RelationshipView{Relationship: r, Order: "1"})

	ds, err := New().Export(set)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	for _, d := range ds {
		if strings.Count(d.Definition, "{") != strings.Count(d.Definition, "}") {
			t.Errorf("%s: unbalanced braces:\n%s", d.Key, d.Definition)
		}
		if !strings.HasSuffix(d.Definition, "@enduml\n") {
			t.Errorf("%s: missing trailer", d.Key)
		}
	}
}

func TestSequenceMode(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	b := &model.SoftwareSystem{ElementBase: base("b", "B", "")}
	c := &model.SoftwareSystem{ElementBase: base("c", "C", "")}
	a.Group = "grouped"
	m := model.New("")
	mustAdd(t, m, a, b, c)
	ab := mustRel(t, m, "ab", a, b, "calls", "")
	bc := mustRel(t, m, "bc", b, c, "calls", "")
	ca := mustRel(t, m, "ca", c, a, "calls", "")

	set := view.NewSet(m)
	v := mustView(t, set, &view.View{Kind: view.KindDynamic, Key: "flow"}, c, b, a)
	for i, r := range []*model.Relationship{ab, bc, ca} {
		v.AddRelationship(view.RelationshipView{Relationship: r, Order: fmt.Sprint(i + 1)})
	}

	e := New(WithSequenceDiagrams(true))
	if !e.SequenceDiagrams() {
		t.Fatal("SequenceDiagrams() = false")
	}
	d := mustExport(t, e, v)

	if n := strings.Count(d.Definition, `System(a, "A", "")`); n != 1 {
		t.Errorf("a declared %d times, want 1", n)
	}
	ia, ib, ic := lineIndex(d.Definition, `System(a, "A", "")`), lineIndex(d.Definition, `System(b, "B", "")`), lineIndex(d.Definition, `System(c, "C", "")`)
	if !(ia < ib && ib < ic) {
		t.Errorf("participants out of first-seen order (a=%d b=%d c=%d):\n%s", ia, ib, ic, d.Definition)
	}
	if strings.Contains(d.Definition, "Boundary(") {
		t.Errorf("sequence mode wrote a boundary:\n%s", d.Definition)
	}
	if len(d.Frames) != 0 {
		t.Errorf("sequence mode produced %d frames", len(d.Frames))
	}
	if lineIndex(d.Definition, `Rel_D(c, a, "3. calls")`) < ic {
		t.Error("relationships must follow the participants")
	}
}

func TestGroupIDsIncreaseAcrossViews(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	b := &model.SoftwareSystem{ElementBase: base("b", "B", "")}
	c := &model.SoftwareSystem{ElementBase: base("c", "C", "")}
	a.Group, b.Group, c.Group = "one", "two", "one"
	m := model.New("")
	mustAdd(t, m, a, b, c)

	set := view.NewSet(m)
	mustView(t, set, &view.View{Kind: view.KindSystemLandscape, Key: "first"}, a, b, c)
	mustView(t, set, &view.View{Kind: view.KindSystemLandscape, Key: "second"}, c)

	ds, err := New().Export(set)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	checks := []struct {
		def  string
		want string
	}{
		{ds[0].Definition, `Boundary(group_0, "one") {`},
		{ds[0].Definition, `Boundary(group_1, "two") {`},
		{ds[1].Definition, `Boundary(group_2, "one") {`},
	}
	for _, c := range checks {
		if !hasLine(c.def, c.want) {
			t.Errorf("missing %q in:\n%s", c.want, c.def)
		}
	}
	if strings.Count(ds[0].Definition, "Boundary(group_") != 2 {
		t.Errorf("group one should be written once:\n%s", ds[0].Definition)
	}
	if lineIndex(ds[0].Definition, `System(c, "C", "")`) > lineIndex(ds[0].Definition, `Boundary(group_1, "two") {`) {
		t.Error("c should be written inside its group, before the second group")
	}
}

func TestEnterpriseBoundary(t *testing.T) {
	user := &model.Person{ElementBase: base("user", "User", ""), Location: model.LocationInternal}
	bank := &model.SoftwareSystem{ElementBase: base("bank", "Bank", ""), Location: model.LocationInternal}
	mail := &model.SoftwareSystem{ElementBase: base("mail", "Mail", ""), Location: model.LocationExternal}

	tests := []struct {
		name       string
		enterprise string
		visible    bool
		want       bool
	}{
		{"drawn", "Big Bank", true, true},
		{"not requested", "Big Bank", false, false},
		{"no enterprise", "", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.New(tt.enterprise)
			mustAdd(t, m, user, bank, mail)
			set := view.NewSet(m)
			v := mustView(t, set, &view.View{Kind: view.KindSystemContext, Key: "ctx", EnterpriseBoundaryVisible: tt.visible}, mail, user, bank)
			d := mustExport(t, New(), v)

			open := lineIndex(d.Definition, fmt.Sprintf(`Enterprise_Boundary(enterprise, "%s") {`, tt.enterprise))
			if (open >= 0) != tt.want {
				t.Fatalf("enterprise boundary drawn = %v, want %v:\n%s", open >= 0, tt.want, d.Definition)
			}
			if !tt.want {
				return
			}
			lines := strings.Split(d.Definition, "\n")
			if lines[open+1] != `  Person(user, "User", "")` || lines[open+2] != `  System(bank, "Bank", "")` {
				t.Errorf("internal elements not inside the boundary:\n%s", d.Definition)
			}
			if lineIndex(d.Definition, `System_Ext(mail, "Mail", "")`) < open {
				t.Errorf("external system should follow the boundary:\n%s", d.Definition)
			}
		})
	}
}

func TestDeploymentView(t *testing.T) {
	sys := &model.SoftwareSystem{ElementBase: base("sys", "Shop", "")}
	api := &model.Container{ElementBase: base("api", "API", "Serves JSON"), Technology: "Go", SoftwareSystem: sys}
	region := &model.DeploymentNode{ElementBase: base("region", "eu-west-1", ""), Instances: 1}
	host := &model.DeploymentNode{ElementBase: base("host", "Node", ""), Technology: "Kubernetes", Instances: 3, Parent: region}
	lb := &model.InfrastructureNode{ElementBase: base("lb", "Load Balancer", ""), Technology: "ELB", Parent: region}
	inst := &model.ContainerInstance{ElementBase: base("api-1", "", ""), Parent: host, Container: api}
	user := &model.Person{ElementBase: base("user", "User", "")}

	m := model.New("")
	mustAdd(t, m, sys, api, region, host, lb, inst, user)
	set := view.NewSet(m)
	v := &view.View{Kind: view.KindDeployment, Key: "live"}
	v.AddElement(user, false)
	v.AddElement(region, false)
	v.AddElement(host, true)
	v.AddElement(lb, false)
	v.AddElement(inst, true)
	if err := set.Add(v); err != nil {
		t.Fatal(err)
	}

	d := mustExport(t, New(), v)
	want := strings.Join([]string{
		`Person(user, "User", "")`,
		`Deployment_Node(region, "eu-west-1") {`,
		`  Deployment_Node(host, "Node (x3)", "Kubernetes") {`,
		`    hide host`,
		`    Container(api-1, "API", "Go", "Serves JSON")`,
		`    hide api-1`,
		`  }`,
		``,
		`  Deployment_Node(lb, "Load Balancer", "ELB")`,
		`}`,
		``,
	}, "\n")
	if !strings.Contains(d.Definition, want) {
		t.Errorf("deployment body mismatch, want:\n%s\ngot:\n%s", want, d.Definition)
	}
	if hasLine(d.Definition, "hide api") {
		t.Error("hide must use the instance id, not the wrapped container id")
	}
}

func TestHiddenElementIsDeclared(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	v := &view.View{Kind: view.KindSystemLandscape, Key: "landscape"}
	v.AddElement(a, true)
	d := mustExport(t, New(), v)

	decl, hide := lineIndex(d.Definition, `System(a, "A", "")`), lineIndex(d.Definition, "hide a")
	if decl < 0 || hide != decl+1 {
		t.Errorf("hidden element should be declared then hidden:\n%s", d.Definition)
	}
}

func TestAnimationFrames(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	b := &model.SoftwareSystem{ElementBase: base("b", "B", "")}
	c := &model.SoftwareSystem{ElementBase: base("c", "C", "")}
	m := model.New("")
	mustAdd(t, m, a, b, c)
	ab := mustRel(t, m, "ab", a, b, "Uses", "")
	bc := mustRel(t, m, "bc", b, c, "Uses", "")

	set := view.NewSet(m)
	v := mustView(t, set, &view.View{Kind: view.KindSystemLandscape, Key: "landscape"}, a, b, c)
	v.AddRelationship(view.RelationshipView{Relationship: ab})
	v.AddRelationship(view.RelationshipView{Relationship: bc})
	v.Animations = []view.AnimationStep{
		{Order: 2, Elements: []string{"b"}},
		{Order: 1, Elements: []string{"a"}},
		{Order: 3, Relationships: []string{"bc"}},
	}

	d := mustExport(t, New(), v)
	if len(d.Frames) != 3 {
		t.Fatalf("frames = %d, want 3", len(d.Frames))
	}
	for i, f := range d.Frames {
		if want := fmt.Sprintf("landscape-%d", i+1); f.Key != want {
			t.Errorf("frame %d key = %q, want %q", i, f.Key, want)
		}
	}

	f1, f2, f3 := d.Frames[0].Definition, d.Frames[1].Definition, d.Frames[2].Definition
	if !hasLine(f1, `System(a, "A", "")`) || hasLine(f1, `System(b, "B", "")`) || strings.Contains(f1, "Rel_D") {
		t.Errorf("frame 1 should only show a:\n%s", f1)
	}
	if !hasLine(f2, `Rel_D(a, b, "Uses")`) || hasLine(f2, `System(c, "C", "")`) {
		t.Errorf("frame 2 should show a, b and their relationship:\n%s", f2)
	}
	if !hasLine(f3, `System(c, "C", "")`) || !hasLine(f3, `Rel_D(b, c, "Uses")`) {
		t.Errorf("frame 3 should pull in c through relationship bc:\n%s", f3)
	}

	v.Animations = v.Animations[:1]
	if d := mustExport(t, New(), v); len(d.Frames) != 0 {
		t.Errorf("single step produced %d frames", len(d.Frames))
	}
}

func TestDynamicFrames(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "A", "")}
	b := &model.SoftwareSystem{ElementBase: base("b", "B", "")}
	c := &model.SoftwareSystem{ElementBase: base("c", "C", "")}
	m := model.New("")
	mustAdd(t, m, a, b, c)
	ab := mustRel(t, m, "ab", a, b, "asks", "")
	bc := mustRel(t, m, "bc", b, c, "forwards", "")

	set := view.NewSet(m)
	v := mustView(t, set, &view.View{Kind: view.KindDynamic, Key: "flow"}, a, b, c)
	v.AddRelationship(view.RelationshipView{Relationship: ab, Order: "1"})
	v.AddRelationship(view.RelationshipView{Relationship: bc, Order: "2"})
	v.AddRelationship(view.RelationshipView{Relationship: ab, Order: "1", Response: true, Description: "answers"})

	d := mustExport(t, New(), v)
	if len(d.Frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(d.Frames))
	}
	f1 := d.Frames[0].Definition
	if hasLine(f1, `System(c, "C", "")`) || !hasLine(f1, `Rel_D(b, a, "1. answers")`) || hasLine(f1, `Rel_D(b, c, "2. forwards")`) {
		t.Errorf("frame 1 should hold order 1 only:\n%s", f1)
	}
	if !hasLine(d.Frames[1].Definition, `Rel_D(b, c, "2. forwards")`) {
		t.Errorf("frame 2 should add order 2:\n%s", d.Frames[1].Definition)
	}
}

func TestMultilineLabels(t *testing.T) {
	a := &model.SoftwareSystem{ElementBase: base("a", "Shop", "Sells\r\nthings")}
	v := &view.View{Kind: view.KindSystemLandscape, Key: "landscape"}
	v.AddElement(a, false)
	d := mustExport(t, New(), v)
	if !hasLine(d.Definition, `System(a, "Shop", "Sells\nthings")`) {
		t.Errorf("newline not escaped:\n%s", d.Definition)
	}
}

func TestExportViewNil(t *testing.T) {
	if _, err := New().ExportView(nil); !c4errors.Is(err, c4errors.ErrCodeInvalidInput) {
		t.Errorf("ExportView(nil) = %v, want %s", err, c4errors.ErrCodeInvalidInput)
	}
}
