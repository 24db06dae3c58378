package io_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	c4errors "github.com/uniknow/c4puml/pkg/errors"
	c4io "github.com/uniknow/c4puml/pkg/io"
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/render/plantuml"
)

func loadBigBank(t *testing.T) *c4io.Workspace {
	t.Helper()
	ws, err := c4io.ImportWorkspace(filepath.Join("testdata", "bigbank.json"))
	if err != nil {
		t.Fatalf("ImportWorkspace: %v", err)
	}
	return ws
}

func TestImportWorkspace(t *testing.T) {
	ws := loadBigBank(t)

	if ws.Name != "Big Bank" || ws.Model.Enterprise != "Big Bank plc" {
		t.Errorf("name = %q, enterprise = %q", ws.Name, ws.Model.Enterprise)
	}
	if got := ws.Model.ElementCount(); got != 12 {
		t.Errorf("ElementCount() = %d, want 12", got)
	}
	if got := ws.Model.RelationshipCount(); got != 3 {
		t.Errorf("RelationshipCount() = %d, want 3", got)
	}

	customer, _ := ws.Model.Element("customer")
	if p, ok := customer.(*model.Person); !ok || p.Location != model.LocationExternal {
		t.Errorf("customer = %#v, want external person", customer)
	}
	node, _ := ws.Model.Element("web-server")
	if n, ok := node.(*model.DeploymentNode); !ok || n.Instances != 4 || n.Parent == nil || n.Parent.ID != "dc" {
		t.Errorf("web-server = %#v, want 4 instances under dc", node)
	}
	inst, _ := ws.Model.Element("web-1")
	if ci, ok := inst.(*model.ContainerInstance); !ok || ci.Container == nil || ci.Container.ID != "web" {
		t.Errorf("web-1 = %#v, want instance of web", inst)
	}
	login, _ := ws.Model.Element("login")
	if !model.HasTag(login, model.TagUseCase) {
		t.Errorf("login tags = %v, want %s", login.Base().Tags, model.TagUseCase)
	}
	r1, ok := ws.Model.Relationship("r1")
	if !ok || model.ID(r1.Source) != "customer" || model.ID(r1.Destination) != "web" {
		t.Errorf("r1 = %+v, want customer -> web", r1)
	}
}

func TestImportViews(t *testing.T) {
	ws := loadBigBank(t)
	set := ws.Views

	if set.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", set.Len())
	}
	keys := make([]string, 0, set.Len())
	for _, v := range set.Views() {
		keys = append(keys, v.Key)
	}
	if got := strings.Join(keys, ","); got != "context,containers,components,signin-flow,live" {
		t.Errorf("view order = %s", got)
	}

	ctx, _ := set.View("context")
	mail, _ := ws.Model.Element("mail")
	if !ctx.IsHidden(mail) || !ctx.EnterpriseBoundaryVisible {
		t.Error("context view: mail should be hidden and the enterprise boundary on by default")
	}

	containers, _ := set.View("containers")
	customer, _ := ws.Model.Element("customer")
	if !containers.Contains(customer) {
		t.Error("relationship endpoint customer should be added to the container view")
	}
	if len(containers.Animations) != 2 {
		t.Errorf("animations = %d, want 2", len(containers.Animations))
	}

	flow, _ := set.View("signin-flow")
	if flow.Container == nil || flow.Container.ID != "web" || flow.SoftwareSystem == nil {
		t.Errorf("dynamic view scope = %+v / %+v", flow.Container, flow.SoftwareSystem)
	}
	if len(flow.Elements) != 2 || !flow.Relationships[1].Response {
		t.Errorf("dynamic view elements = %d, relationships = %+v", len(flow.Elements), flow.Relationships)
	}

	styles := set.Configuration.Styles.Elements
	if len(styles) != 3 || styles[2].Shape != nil {
		t.Errorf("styles = %+v, want unknown shape left unset", styles)
	}
	db, _ := ws.Model.Element("db")
	if s := set.Configuration.Styles.FindElementStyle(db); *s.Shape != model.ShapeCylinder {
		t.Errorf("db shape = %s, want Cylinder", s.Shape)
	}
}

func TestImportedWorkspaceRenders(t *testing.T) {
	ws := loadBigBank(t)
	diagrams, err := plantuml.New().Export(ws.Views)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	byKey := make(map[string]*plantuml.Diagram)
	for _, d := range diagrams {
		byKey[d.Key] = d
	}
	tests := []struct {
		key  string
		want string
	}{
		{"context", "hide mail"},
		{"context", `Enterprise_Boundary(enterprise, "Big Bank plc") {`},
		{"containers", `ContainerDb(db, "Database", "PostgreSQL", "")`},
		{"components", `UseCase(login, "Log in", "", "")`},
		{"signin-flow", `Rel_D(db, web, "2. Returns user", "SQL")`},
		{"live", `Deployment_Node(web-server, "Web Server (x4)", "Ubuntu") {`},
		{"live", `Container(web-1, "Web Application", "Go", "")`},
		{"live", `System_Ext(mail-1, "E-mail System", "")`},
		{"live", `Deployment_Node(lb, "Load Balancer", "nginx")`},
	}
	for _, tt := range tests {
		d, ok := byKey[tt.key]
		if !ok {
			t.Fatalf("no diagram for %s", tt.key)
		}
		if !strings.Contains(d.Definition, tt.want) {
			t.Errorf("%s: missing %q in:\n%s", tt.key, tt.want, d.Definition)
		}
	}
	if n := len(byKey["containers"].Frames); n != 2 {
		t.Errorf("containers frames = %d, want 2", n)
	}
}

func TestReadWorkspaceErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"model": `},
		{"duplicate element", `{"model": {"people": [{"id": "a"}, {"id": "a"}]}}`},
		{"unknown destination", `{"model": {"people": [{"id": "a", "relationships": [{"destinationId": "b"}]}]}}`},
		{"bad instances", `{"model": {"deploymentNodes": [{"id": "n", "instances": "many"}]}}`},
		{"instance of wrong kind", `{"model": {"people": [{"id": "p"}], "deploymentNodes": [{"id": "n", "containerInstances": [{"id": "i", "containerId": "p"}]}]}}`},
		{"unknown view element", `{"views": {"systemLandscapeViews": [{"key": "l", "elements": [{"id": "x"}]}]}}`},
		{"unknown view relationship", `{"views": {"systemLandscapeViews": [{"key": "l", "relationships": [{"id": "x"}]}]}}`},
		{"duplicate view key", `{"views": {"systemLandscapeViews": [{"key": "l"}, {"key": "l"}]}}`},
		{"bad dynamic scope", `{"model": {"people": [{"id": "p"}]}, "views": {"dynamicViews": [{"key": "d", "elementId": "p"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c4io.ReadWorkspace(strings.NewReader(tt.json))
			if !c4errors.Is(err, c4errors.ErrCodeInvalidWorkspace) {
				t.Errorf("ReadWorkspace() error = %v, want %s", err, c4errors.ErrCodeInvalidWorkspace)
			}
		})
	}
}

func TestImportWorkspaceMissingFile(t *testing.T) {
	_, err := c4io.ImportWorkspace(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportWorkspace(missing) error = %v, want not-exist", err)
	}
}

func TestWriteDiagrams(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	diagrams := []*plantuml.Diagram{
		{Key: "context", Definition: "@startuml\n@enduml\n"},
		{Key: "flow", Definition: "@startuml\n@enduml\n", Frames: []*plantuml.Diagram{
			{Key: "flow-1", Definition: "frame 1\n"},
			{Key: "flow-2", Definition: "frame 2\n"},
		}},
	}

	paths, err := c4io.WriteDiagrams(dir, diagrams)
	if err != nil {
		t.Fatalf("WriteDiagrams: %v", err)
	}
	want := []string{"context.puml", "flow.puml", "flow-1.puml", "flow-2.puml"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], name)
		}
	}
	got, err := os.ReadFile(filepath.Join(dir, "flow-2.puml"))
	if err != nil || string(got) != "frame 2\n" {
		t.Errorf("flow-2.puml = %q, %v", got, err)
	}
}

func TestWriteArtifactRejectsEscapingKeys(t *testing.T) {
	dir := t.TempDir()
	for _, key := range []string{"../escape", "a/b", ""} {
		if _, err := c4io.WriteArtifact(dir, key, ".puml", nil); !c4errors.Is(err, c4errors.ErrCodeInvalidInput) {
			t.Errorf("WriteArtifact(%q) error = %v, want %s", key, err, c4errors.ErrCodeInvalidInput)
		}
	}
}

func TestDiagramsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := c4io.WriteDiagramsJSON(nil, &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("nil diagrams encoded as %q, want []", buf.String())
	}

	buf.Reset()
	in := []*plantuml.Diagram{{Key: "flow", Definition: "x", Frames: []*plantuml.Diagram{{Key: "flow-1", Definition: "y"}}}}
	if err := c4io.WriteDiagramsJSON(in, &buf); err != nil {
		t.Fatal(err)
	}
	out, err := c4io.ReadDiagramsJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || len(out[0].Frames) != 1 || out[0].Frames[0].Key != "flow-1" {
		t.Errorf("ReadDiagramsJSON() = %+v", out)
	}
}
