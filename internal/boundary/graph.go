package boundary

import (
	"sort"
	"strings"

	"lsscore/internal/types"
)

// GraphStructureResponse answers GET /api/graph/structure.
type GraphStructureResponse struct {
	Envelope
	Nodes []types.Node `json:"nodes,omitempty"`
	Edges []types.Edge `json:"edges,omitempty"`
}

// GraphStructure returns every Node and Edge, positions and hidden flags included.
func (d *Dispatcher) GraphStructure() GraphStructureResponse {
	nodes, err := d.store.ListNodes()
	if err != nil {
		logRequest("graph_structure", err)
		return GraphStructureResponse{Envelope: fail(err.Error())}
	}
	edges, err := d.store.ListEdges()
	if err != nil {
		logRequest("graph_structure", err)
		return GraphStructureResponse{Envelope: fail(err.Error())}
	}
	logRequest("graph_structure", nil)
	return GraphStructureResponse{Envelope: ok(), Nodes: nodes, Edges: edges}
}

// RiskTreeResponse answers GET /api/graph/risks/tree.
type RiskTreeResponse struct {
	Envelope
	Risks     []types.Risk     `json:"risks,omitempty"`
	RiskEdges []types.RiskEdge `json:"risk_edges,omitempty"`
}

// RiskTree returns every Risk and RiskEdge in the fault tree.
func (d *Dispatcher) RiskTree() RiskTreeResponse {
	risks, err := d.store.ListRisks()
	if err != nil {
		logRequest("risk_tree", err)
		return RiskTreeResponse{Envelope: fail(err.Error())}
	}
	edges, err := d.store.ListRiskEdges()
	if err != nil {
		logRequest("risk_tree", err)
		return RiskTreeResponse{Envelope: fail(err.Error())}
	}
	logRequest("risk_tree", nil)
	return RiskTreeResponse{Envelope: ok(), Risks: risks, RiskEdges: edges}
}

// NodeRisksResponse answers GET /api/graph/nodes/{code}/risks.
type NodeRisksResponse struct {
	Envelope
	Risks []types.Risk `json:"risks,omitempty"`
}

// NodeRisks matches a node to risks two ways: first the explicit
// ActionDef.risk_code linkage for actions targeting this node's code,
// then a fallback code-prefix heuristic (leading letters of the node
// code against the leading letters of the risk code, e.g. "E1" against
// "E-EXTRACT-TEMP"). Results are deduplicated, order is risk_code-linked
// first then prefix matches, both ascending by Risk.Code.
func (d *Dispatcher) NodeRisks(nodeCode string) NodeRisksResponse {
	if nodeCode == "" {
		return NodeRisksResponse{Envelope: fail("node_code is required")}
	}

	risks, err := d.store.ListRisks()
	if err != nil {
		logRequest("node_risks", err)
		return NodeRisksResponse{Envelope: fail(err.Error())}
	}
	actions, err := d.store.ListActionDefs()
	if err != nil {
		logRequest("node_risks", err)
		return NodeRisksResponse{Envelope: fail(err.Error())}
	}

	byCode := make(map[string]types.Risk, len(risks))
	for _, r := range risks {
		byCode[r.Code] = r
	}

	linked := make(map[string]bool)
	for _, a := range actions {
		if a.RiskCode == "" {
			continue
		}
		if strings.Contains(a.InstructionTemplate, nodeCode) {
			linked[a.RiskCode] = true
		}
	}

	prefix := codePrefix(nodeCode)
	seen := make(map[string]bool)
	var matched []types.Risk

	linkedCodes := make([]string, 0, len(linked))
	for code := range linked {
		linkedCodes = append(linkedCodes, code)
	}
	sort.Strings(linkedCodes)
	for _, code := range linkedCodes {
		if r, ok := byCode[code]; ok && !seen[code] {
			matched = append(matched, r)
			seen[code] = true
		}
	}
	if prefix != "" {
		for _, r := range risks {
			if seen[r.Code] {
				continue
			}
			if codePrefix(r.Code) == prefix {
				matched = append(matched, r)
				seen[r.Code] = true
			}
		}
	}

	logRequest("node_risks", nil)
	return NodeRisksResponse{Envelope: ok(), Risks: matched}
}

// codePrefix returns the leading run of non-digit, non-separator
// characters of a code, upper-cased: "E1" -> "E", "C-12" -> "C".
func codePrefix(code string) string {
	end := 0
	for end < len(code) {
		c := code[end]
		if c >= '0' && c <= '9' || c == '-' || c == '_' {
			break
		}
		end++
	}
	return strings.ToUpper(code[:end])
}
