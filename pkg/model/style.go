package model

import "strings"

// Shape is the visual shape hint of an element style.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeRoundedBox
	ShapeCircle
	ShapeEllipse
	ShapeHexagon
	ShapeCylinder
	ShapePipe
	ShapePerson
	ShapeRobot
	ShapeFolder
	ShapeWebBrowser
	ShapeMobileDevicePortrait
	ShapeMobileDeviceLandscape
	ShapeComponent
)

var shapeNames = map[Shape]string{
	ShapeBox:                   "Box",
	ShapeRoundedBox:            "RoundedBox",
	ShapeCircle:                "Circle",
	ShapeEllipse:               "Ellipse",
	ShapeHexagon:               "Hexagon",
	ShapeCylinder:              "Cylinder",
	ShapePipe:                  "Pipe",
	ShapePerson:                "Person",
	ShapeRobot:                 "Robot",
	ShapeFolder:                "Folder",
	ShapeWebBrowser:            "WebBrowser",
	ShapeMobileDevicePortrait:  "MobileDevicePortrait",
	ShapeMobileDeviceLandscape: "MobileDeviceLandscape",
	ShapeComponent:             "Component",
}

// String returns the Structurizr name of the shape.
func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return "Box"
}

// ParseShape converts a Structurizr shape name, case-insensitively.
func ParseShape(s string) (Shape, bool) {
	for shape, name := range shapeNames {
		if strings.EqualFold(name, s) {
			return shape, true
		}
	}
	return ShapeBox, false
}

// ElementStyle applies to every element carrying Tag.
// A nil Shape leaves the shape of earlier matching styles untouched.
type ElementStyle struct {
	Tag   string
	Shape *Shape
}

// Styles is the ordered list of element styles of a workspace.
type Styles struct {
	Elements []ElementStyle
}

// AddElementStyle appends a style for tag with the given shape.
func (s *Styles) AddElementStyle(tag string, shape Shape) {
	s.Elements = append(s.Elements, ElementStyle{Tag: tag, Shape: &shape})
}

// FindElementStyle resolves the effective style of e. Tags are visited in
// [AllTags] order and every style matching the tag is merged in, so later
// tags override earlier ones. Instance wrappers are styled by the element
// they wrap. The result always has a shape; ShapeBox when nothing matched.
func (s *Styles) FindElementStyle(e Element) ElementStyle {
	shape := ShapeBox
	out := ElementStyle{Tag: TagElement, Shape: &shape}
	if s == nil {
		return out
	}
	for _, tag := range AllTags(Display(e)) {
		for _, st := range s.Elements {
			if st.Tag != tag || st.Shape == nil {
				continue
			}
			shape = *st.Shape
			out.Tag = tag
		}
	}
	return out
}
