// Package visualizer renders keyword graphs as standalone D3.js pages.
package visualizer

import (
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/athapong/aio-keywords/pkg/graph"
)

// TypeColors maps node types to fill colours. Unknown types are grey.
var TypeColors = map[string]string{
	"entity":  "#d62728",
	"concept": "#1f77b4",
	"term":    "#2ca02c",
}

const fallbackColor = "#7f7f7f"

const d3Template = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body { margin: 0; font-family: Arial, sans-serif; }
        #graph { width: 100%; height: 100vh; background-color: #fafafa; }
        .node { stroke: #fff; stroke-width: 1.5px; }
        .link { stroke: #999; stroke-opacity: 0.6; }
        .link.CO_OCCURS { stroke: #d62728; stroke-dasharray: 4 2; }
        .node-label { font-size: 10px; pointer-events: none; }
        .legend {
            position: absolute; top: 10px; left: 10px;
            background-color: rgba(255,255,255,0.85);
            padding: 10px; border-radius: 5px;
        }
        .swatch { display: inline-block; width: 10px; height: 10px; margin-right: 4px; }
    </style>
</head>
<body>
    <div id="graph"></div>
    <div class="legend">
        <h3>{{.Title}}</h3>
        <p>Documents: {{.DocumentCount}}, Keywords: {{.NodeCount}}, Links: {{.EdgeCount}}</p>
        {{range .Legend}}<div><span class="swatch" style="background: {{.Color}}"></span>{{.Type}}</div>
        {{end}}
        <label for="type-filter">Show:</label>
        <select id="type-filter">
            <option value="all">all types</option>
            {{range .Legend}}<option value="{{.Type}}">{{.Type}}</option>
            {{end}}
        </select>
    </div>

    <script>
        const graphData = {{.GraphData}};
        const colors = {{.Colors}};

        const simulation = d3.forceSimulation(graphData.nodes)
            .force("link", d3.forceLink(graphData.edges).id(d => d.id).distance(90))
            .force("charge", d3.forceManyBody().strength(-250))
            .force("center", d3.forceCenter(window.innerWidth / 2, window.innerHeight / 2));

        const svg = d3.select("#graph").append("svg")
            .attr("width", "100%")
            .attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => g.attr("transform", event.transform)));
        const g = svg.append("g");

        const link = g.append("g").selectAll("line")
            .data(graphData.edges).enter().append("line")
            .attr("class", d => "link " + d.type)
            .attr("stroke-width", d => 1 + Math.sqrt(d.weight) * 2);
        link.append("title").text(d => d.type + " (" + d.weight.toFixed(2) + ")");

        const radius = d => 5 + 2 * Math.sqrt((d.properties && d.properties.frequency) || 1);
        const node = g.append("g").selectAll("circle")
            .data(graphData.nodes).enter().append("circle")
            .attr("class", "node")
            .attr("r", radius)
            .attr("fill", d => colors[d.type] || "{{.Fallback}}")
            .call(d3.drag()
                .on("start", (event, d) => { if (!event.active) simulation.alphaTarget(0.3).restart(); d.fx = d.x; d.fy = d.y; })
                .on("drag", (event, d) => { d.fx = event.x; d.fy = event.y; })
                .on("end", (event, d) => { if (!event.active) simulation.alphaTarget(0); d.fx = null; d.fy = null; }));
        node.append("title").text(d => d.label + " (" + d.type + ", " + (d.sources || []).length + " documents)");

        const label = g.append("g").selectAll("text")
            .data(graphData.nodes).enter().append("text")
            .attr("class", "node-label")
            .attr("dx", 12)
            .attr("dy", ".35em")
            .text(d => d.label);

        simulation.on("tick", () => {
            link.attr("x1", d => d.source.x).attr("y1", d => d.source.y)
                .attr("x2", d => d.target.x).attr("y2", d => d.target.y);
            node.attr("cx", d => d.x).attr("cy", d => d.y);
            label.attr("x", d => d.x).attr("y", d => d.y);
        });

        d3.select("#type-filter").on("change", function() {
            const t = this.value;
            const show = d => t === "all" || d.type === t;
            node.style("visibility", d => show(d) ? "visible" : "hidden");
            label.style("visibility", d => show(d) ? "visible" : "hidden");
            link.style("visibility", d => show(d.source) || show(d.target) ? "visible" : "hidden");
        });
    </script>
</body>
</html>
`

var pageTemplate = template.Must(template.New("d3").Parse(d3Template))

type legendEntry struct {
	Type  string
	Color string
}

// D3Visualizer writes D3.js visualizations of keyword graphs.
type D3Visualizer struct {
	outputPath string
	title      string
}

// NewD3Visualizer creates a visualizer writing to outputPath.
func NewD3Visualizer(outputPath string) *D3Visualizer {
	return &D3Visualizer{
		outputPath: outputPath,
		title:      "Keyword Graph",
	}
}

// WithTitle sets the page title.
func (v *D3Visualizer) WithTitle(title string) *D3Visualizer {
	v.title = title
	return v
}

// Visualize writes the HTML page for g to the output path.
func (v *D3Visualizer) Visualize(g *graph.KeywordGraph) error {
	if err := os.MkdirAll(filepath.Dir(v.outputPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	f, err := os.Create(v.outputPath)
	if err != nil {
		return errors.Wrap(err, "failed to create visualization file")
	}
	if err := v.Render(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the HTML page for g to w.
func (v *D3Visualizer) Render(w io.Writer, g *graph.KeywordGraph) error {
	if g == nil {
		return errors.New("cannot render nil graph")
	}
	graphData, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "failed to encode graph")
	}
	colors, err := json.Marshal(TypeColors)
	if err != nil {
		return errors.Wrap(err, "failed to encode colours")
	}

	data := struct {
		Title         string
		GraphData     template.JS
		Colors        template.JS
		Fallback      string
		Legend        []legendEntry
		NodeCount     int
		EdgeCount     int
		DocumentCount int
	}{
		Title:         v.title,
		GraphData:     template.JS(graphData),
		Colors:        template.JS(colors),
		Fallback:      fallbackColor,
		Legend:        legend(g),
		NodeCount:     len(g.Nodes),
		EdgeCount:     len(g.Edges),
		DocumentCount: len(g.Documents),
	}
	return errors.Wrap(pageTemplate.Execute(w, data), "failed to render visualization")
}

// legend lists the node types present in g, keyword types first.
func legend(g *graph.KeywordGraph) []legendEntry {
	present := make(map[string]bool)
	for _, n := range g.Nodes {
		present[n.Type] = true
	}
	entries := make([]legendEntry, 0, len(present))
	for _, t := range []string{"entity", "concept", "term"} {
		if present[t] {
			entries = append(entries, legendEntry{Type: t, Color: TypeColors[t]})
			delete(present, t)
		}
	}
	rest := make([]string, 0, len(present))
	for t := range present {
		rest = append(rest, t)
	}
	sort.Strings(rest)
	for _, t := range rest {
		entries = append(entries, legendEntry{Type: t, Color: fallbackColor})
	}
	return entries
}
