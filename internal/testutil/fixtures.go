package testutil

// Graph data fixtures in the data file format.

// ABCGraphJSON is nodes {A,B,C} with links A-B:0.9 and B-C:0.2.
var ABCGraphJSON = `{
  "nodes": [
    {"id": "A", "group": 1},
    {"id": "B", "group": 1},
    {"id": "C", "group": 2}
  ],
  "links": [
    {"source": "A", "target": "B", "value": 0.9},
    {"source": "B", "target": "C", "value": 0.2}
  ]
}`

// CausalGraphJSON is a small causal graph with two components and one link
// that references a node missing from the node list.
var CausalGraphJSON = `{
  "nodes": [
    {"id": "Rainfall", "group": 0},
    {"id": "SoilMoisture", "group": 0},
    {"id": "CropYield", "group": 1},
    {"id": "FoodPrice", "group": 2},
    {"id": "Irrigation", "group": 1},
    {"id": "SolarFlux", "group": 3},
    {"id": "GridLoad", "group": 3}
  ],
  "links": [
    {"source": "Rainfall", "target": "SoilMoisture", "value": 0.82},
    {"source": "SoilMoisture", "target": "CropYield", "value": 0.64},
    {"source": "Irrigation", "target": "SoilMoisture", "value": 0.41},
    {"source": "CropYield", "target": "FoodPrice", "value": 0.12},
    {"source": "SolarFlux", "target": "GridLoad", "value": 0.55},
    {"source": "GridLoad", "target": "SolarFlux", "value": 0.07},
    {"source": "Rainfall", "target": "Q", "value": 0.9}
  ]
}`

// MalformedGraphJSON has a node without an id.
var MalformedGraphJSON = `{
  "nodes": [{"id": "A"}, {"group": 3}],
  "links": []
}`
