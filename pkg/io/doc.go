// Package io reads workspaces and writes rendered diagrams.
//
// # Workspace JSON
//
// [ReadWorkspace] accepts the subset of the Structurizr workspace format
// needed to draw C4 diagrams:
//
//	{
//	  "name": "Big Bank",
//	  "model": {
//	    "enterprise": {"name": "Big Bank plc"},
//	    "people": [{
//	      "id": "1", "name": "Customer", "location": "External",
//	      "relationships": [{"id": "r1", "destinationId": "2", "description": "Uses"}]
//	    }],
//	    "softwareSystems": [{
//	      "id": "2", "name": "Internet Banking",
//	      "containers": [{"id": "3", "name": "API", "technology": "Go"}]
//	    }],
//	    "deploymentNodes": [{
//	      "id": "10", "name": "Server", "instances": "2",
//	      "containerInstances": [{"id": "11", "containerId": "3"}]
//	    }]
//	  },
//	  "views": {
//	    "containerViews": [{
//	      "key": "containers", "softwareSystemId": "2",
//	      "elements": [{"id": "1"}, {"id": "3", "visible": false}],
//	      "relationships": [{"id": "r1"}]
//	    }],
//	    "configuration": {"styles": {"elements": [{"tag": "Database", "shape": "Cylinder"}]}}
//	  }
//	}
//
// Tags are comma separated. Deployment node instances may be written as a
// number or a string. Dynamic views are scoped through "elementId", which
// may name a software system or a container.
//
// # Diagram output
//
// [WriteDiagrams] writes one <key>.puml file per view and one
// <key>-<n>.puml file per frame. [WriteDiagramsJSON] and [ReadDiagramsJSON]
// carry the same diagrams as JSON, which is how they are cached and served.
package io
