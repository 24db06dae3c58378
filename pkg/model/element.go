package model

import "slices"

// Location says whether a person or software system sits inside or outside
// the enterprise being modelled.
type Location int

const (
	// LocationUnspecified is the zero value; it renders like LocationInternal.
	LocationUnspecified Location = iota
	LocationInternal
	LocationExternal
)

// String returns the Structurizr name of the location.
func (l Location) String() string {
	switch l {
	case LocationInternal:
		return "Internal"
	case LocationExternal:
		return "External"
	default:
		return "Unspecified"
	}
}

// ParseLocation converts a Structurizr location name. Unknown values map to
// LocationUnspecified.
func ParseLocation(s string) Location {
	switch s {
	case "Internal", "internal":
		return LocationInternal
	case "External", "external":
		return LocationExternal
	default:
		return LocationUnspecified
	}
}

// Default tags assigned by Structurizr to every element of a kind.
const (
	TagElement                = "Element"
	TagPerson                 = "Person"
	TagSoftwareSystem         = "Software System"
	TagContainer              = "Container"
	TagComponent              = "Component"
	TagDeploymentNode         = "Deployment Node"
	TagInfrastructureNode     = "Infrastructure Node"
	TagSoftwareSystemInstance = "Software System Instance"
	TagContainerInstance      = "Container Instance"

	// TagUseCase marks a component that renders as a use case.
	TagUseCase = "USE-CASE"
)

// ElementBase holds the attributes shared by every element kind.
type ElementBase struct {
	ID          string
	Name        string
	Description string
	Tags        []string // custom tags, in declaration order
	Group       string
	URL         string
	Properties  map[string]string
}

// Base returns the shared attributes.
func (b *ElementBase) Base() *ElementBase { return b }

func (*ElementBase) isElement() {}

// Element is one of the concrete element kinds declared in this package.
// The set is closed: switches over Element must handle every kind below.
//
//sumtype:decl
type Element interface {
	Base() *ElementBase
	isElement()
}

// Person is a human user of the modelled systems.
type Person struct {
	ElementBase
	Location Location
}

// SoftwareSystem is the highest level of abstraction in the model.
type SoftwareSystem struct {
	ElementBase
	Location Location
}

// Container is a separately deployable unit inside a software system.
type Container struct {
	ElementBase
	Technology     string
	SoftwareSystem *SoftwareSystem
}

// Component is a grouping of functionality inside a container.
type Component struct {
	ElementBase
	Technology string
	Container  *Container
}

// DeploymentNode is a piece of infrastructure that hosts instances.
// Deployment nodes only ever render as boundaries.
type DeploymentNode struct {
	ElementBase
	Technology  string
	Environment string
	Instances   int
	Parent      *DeploymentNode
}

// InfrastructureNode is a supporting piece of infrastructure (load balancer,
// firewall, DNS) living inside a deployment node.
type InfrastructureNode struct {
	ElementBase
	Technology  string
	Environment string
	Parent      *DeploymentNode
}

// SoftwareSystemInstance stands in for a software system inside a
// deployment node. It keeps its own identity while borrowing the display
// attributes of SoftwareSystem.
type SoftwareSystemInstance struct {
	ElementBase
	Environment    string
	InstanceID     int
	Parent         *DeploymentNode
	SoftwareSystem *SoftwareSystem
}

// ContainerInstance stands in for a container inside a deployment node.
type ContainerInstance struct {
	ElementBase
	Environment string
	InstanceID  int
	Parent      *DeploymentNode
	Container   *Container
}

// ID returns the identifier of e.
func ID(e Element) string { return e.Base().ID }

// Name returns the name of e.
func Name(e Element) string { return e.Base().Name }

// Display returns the element whose attributes label e. For instance
// wrappers this is the wrapped static element; every other kind is its own
// display delegate. The identity of e (its id, its visibility) is unaffected.
func Display(e Element) Element {
	switch x := e.(type) {
	case *SoftwareSystemInstance:
		if x.SoftwareSystem != nil {
			return x.SoftwareSystem
		}
	case *ContainerInstance:
		if x.Container != nil {
			return x.Container
		}
	}
	return e
}

// Technology returns the technology of e, or "" for kinds without one.
func Technology(e Element) string {
	switch x := e.(type) {
	case *Container:
		return x.Technology
	case *Component:
		return x.Technology
	case *DeploymentNode:
		return x.Technology
	case *InfrastructureNode:
		return x.Technology
	case *Person, *SoftwareSystem, *SoftwareSystemInstance, *ContainerInstance:
		return ""
	}
	return ""
}

// Parent returns the element that contains e, or nil for top-level
// elements. Containers belong to software systems, components to
// containers, and deployment-scoped elements to deployment nodes.
func Parent(e Element) Element {
	switch x := e.(type) {
	case *Container:
		if x.SoftwareSystem != nil {
			return x.SoftwareSystem
		}
	case *Component:
		if x.Container != nil {
			return x.Container
		}
	case *DeploymentNode:
		if x.Parent != nil {
			return x.Parent
		}
	case *InfrastructureNode:
		if x.Parent != nil {
			return x.Parent
		}
	case *SoftwareSystemInstance:
		if x.Parent != nil {
			return x.Parent
		}
	case *ContainerInstance:
		if x.Parent != nil {
			return x.Parent
		}
	case *Person, *SoftwareSystem:
	}
	return nil
}

// Kind returns a human-readable kind name, matching the Structurizr default tag.
func Kind(e Element) string {
	switch e.(type) {
	case *Person:
		return TagPerson
	case *SoftwareSystem:
		return TagSoftwareSystem
	case *Container:
		return TagContainer
	case *Component:
		return TagComponent
	case *DeploymentNode:
		return TagDeploymentNode
	case *InfrastructureNode:
		return TagInfrastructureNode
	case *SoftwareSystemInstance:
		return TagSoftwareSystemInstance
	case *ContainerInstance:
		return TagContainerInstance
	}
	return TagElement
}

// DefaultTags returns the tags Structurizr assigns to every element of e's kind.
func DefaultTags(e Element) []string {
	return []string{TagElement, Kind(e)}
}

// AllTags returns the default tags followed by the custom tags of e, with
// duplicates removed. Style resolution walks tags in this order.
func AllTags(e Element) []string {
	tags := DefaultTags(e)
	for _, t := range e.Base().Tags {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether e carries tag, either by default or explicitly.
func HasTag(e Element, tag string) bool {
	return slices.Contains(AllTags(e), tag)
}
