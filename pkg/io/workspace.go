package io

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The types below mirror the subset of the Structurizr workspace JSON that
// the exporter understands. Unknown fields are ignored.

type workspaceDoc struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Model       modelDoc `json:"model"`
	Views       viewsDoc `json:"views"`
}

type modelDoc struct {
	Enterprise      *enterpriseDoc      `json:"enterprise,omitempty"`
	People          []personDoc         `json:"people"`
	SoftwareSystems []softwareSystemDoc `json:"softwareSystems"`
	DeploymentNodes []deploymentNodeDoc `json:"deploymentNodes"`
}

type enterpriseDoc struct {
	Name string `json:"name"`
}

type elementDoc struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Tags          string            `json:"tags"`
	Group         string            `json:"group"`
	URL           string            `json:"url"`
	Properties    map[string]string `json:"properties"`
	Relationships []relationshipDoc `json:"relationships"`
}

type personDoc struct {
	elementDoc
	Location string `json:"location"`
}

type softwareSystemDoc struct {
	elementDoc
	Location   string         `json:"location"`
	Containers []containerDoc `json:"containers"`
}

type containerDoc struct {
	elementDoc
	Technology string         `json:"technology"`
	Components []componentDoc `json:"components"`
}

type componentDoc struct {
	elementDoc
	Technology string `json:"technology"`
}

type deploymentNodeDoc struct {
	elementDoc
	Technology              string                      `json:"technology"`
	Environment             string                      `json:"environment"`
	Instances               instanceCount               `json:"instances"`
	Children                []deploymentNodeDoc         `json:"children"`
	InfrastructureNodes     []infrastructureNodeDoc     `json:"infrastructureNodes"`
	SoftwareSystemInstances []softwareSystemInstanceDoc `json:"softwareSystemInstances"`
	ContainerInstances      []containerInstanceDoc      `json:"containerInstances"`
}

type infrastructureNodeDoc struct {
	elementDoc
	Technology  string `json:"technology"`
	Environment string `json:"environment"`
}

type softwareSystemInstanceDoc struct {
	elementDoc
	Environment      string `json:"environment"`
	InstanceID       int    `json:"instanceId"`
	SoftwareSystemID string `json:"softwareSystemId"`
}

type containerInstanceDoc struct {
	elementDoc
	Environment string `json:"environment"`
	InstanceID  int    `json:"instanceId"`
	ContainerID string `json:"containerId"`
}

type relationshipDoc struct {
	ID            string `json:"id"`
	SourceID      string `json:"sourceId"`
	DestinationID string `json:"destinationId"`
	Description   string `json:"description"`
	Technology    string `json:"technology"`
	Tags          string `json:"tags"`
}

type viewsDoc struct {
	SystemLandscapeViews []viewDoc         `json:"systemLandscapeViews"`
	SystemContextViews   []viewDoc         `json:"systemContextViews"`
	ContainerViews       []viewDoc         `json:"containerViews"`
	ComponentViews       []viewDoc         `json:"componentViews"`
	DynamicViews         []viewDoc         `json:"dynamicViews"`
	DeploymentViews      []viewDoc         `json:"deploymentViews"`
	Configuration        configurationDoc `json:"configuration"`
}

type viewDoc struct {
	Key                       string                `json:"key"`
	Title                     string                `json:"title"`
	Description               string                `json:"description"`
	SoftwareSystemID          string                `json:"softwareSystemId"`
	ContainerID               string                `json:"containerId"`
	ElementID                 string                `json:"elementId"`
	Environment               string                `json:"environment"`
	EnterpriseBoundaryVisible *bool                 `json:"enterpriseBoundaryVisible"`
	Elements                  []elementViewDoc      `json:"elements"`
	Relationships             []relationshipViewDoc `json:"relationships"`
	Animations                []animationDoc        `json:"animations"`
}

type elementViewDoc struct {
	ID      string `json:"id"`
	Visible *bool  `json:"visible"`
}

type relationshipViewDoc struct {
	ID          string `json:"id"`
	Order       string `json:"order"`
	Description string `json:"description"`
	Response    bool   `json:"response"`
}

type animationDoc struct {
	Order         int      `json:"order"`
	Elements      []string `json:"elements"`
	Relationships []string `json:"relationships"`
}

type configurationDoc struct {
	Styles stylesDoc `json:"styles"`
}

type stylesDoc struct {
	Elements []elementStyleDoc `json:"elements"`
}

type elementStyleDoc struct {
	Tag   string `json:"tag"`
	Shape string `json:"shape"`
}

// instanceCount accepts both 3 and "3"; Structurizr has written both.
type instanceCount int

func (c *instanceCount) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*c = instanceCount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("instances: %s is neither a number nor a string", b)
	}
	if strings.TrimSpace(s) == "" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("instances: %w", err)
	}
	*c = instanceCount(n)
	return nil
}

// splitTags parses Structurizr's comma separated tag list.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
