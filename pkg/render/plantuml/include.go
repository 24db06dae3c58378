package plantuml

import (
	"github.com/uniknow/c4puml/pkg/model"
	"github.com/uniknow/c4puml/pkg/view"
)

// RootIncludes is the base URL of the C4 notation definitions.
const RootIncludes = "https://raw.githubusercontent.com/uniknow/c4Modeling/master/includes"

// Notation definition files under RootIncludes.
const (
	IncludeC4         = RootIncludes + "/C4.puml"
	IncludeContext    = RootIncludes + "/C4_Context.puml"
	IncludeContainer  = RootIncludes + "/C4_Container.puml"
	IncludeComponent  = RootIncludes + "/C4_Component.puml"
	IncludeUseCase    = RootIncludes + "/C4_UseCase.puml"
	IncludeDeployment = RootIncludes + "/C4_Deployment.puml"
)

// Include is one header include. Locator is a URL, or a file path when
// File is set. Label identifies the include to the caller; it plays no part
// in de-duplication and is not written to the diagram.
type Include struct {
	Label   string
	Locator string
	File    bool
}

// Directive returns the PlantUML line for the include.
func (i Include) Directive() string {
	if i.File {
		return "!include " + i.Locator
	}
	return "!includeurl " + i.Locator
}

// includeList is an ordered list of includes, unique by kind and locator.
type includeList []Include

// add appends inc unless an include of the same kind with the same locator
// is already present. It reports whether inc was added.
func (l *includeList) add(inc Include) bool {
	for _, existing := range *l {
		if existing.File == inc.File && existing.Locator == inc.Locator {
			return false
		}
	}
	*l = append(*l, inc)
	return true
}

// requiredIncludes returns the notation definitions needed by v.
func requiredIncludes(v *view.View) includeList {
	var l includeList
	l.add(Include{Label: "C4", Locator: IncludeC4})
	l.add(Include{Label: "C4_Context", Locator: IncludeContext})

	if v.AnyElement(isContainerLike) {
		l.add(Include{Label: "C4_Container", Locator: IncludeContainer})
	}
	if v.AnyElement(isComponent) {
		l.add(Include{Label: "C4_Component", Locator: IncludeComponent})
		l.add(Include{Label: "C4_UseCase", Locator: IncludeUseCase})
	}
	if v.Kind == view.KindDeployment {
		l.add(Include{Label: "C4_Deployment", Locator: IncludeDeployment})
	}
	return l
}

// resolveIncludes computes the header includes of v: the required
// notation definitions first, then custom URL includes, then custom file
// includes. The required part is rebuilt on every call; the custom
// registries belong to the session and are only read here.
func (s *session) resolveIncludes(v *view.View) []Include {
	l := requiredIncludes(v)
	for _, inc := range s.urls {
		l.add(inc)
	}
	for _, inc := range s.files {
		l.add(inc)
	}
	return l
}

func isContainerLike(e model.Element) bool {
	switch e.(type) {
	case *model.Container, *model.ContainerInstance:
		return true
	}
	return false
}

func isComponent(e model.Element) bool {
	_, ok := e.(*model.Component)
	return ok
}
