// Package a2a implements the agent-to-agent stage transport: agent-card
// self-description plus JSON-RPC message dispatch. Each pipeline stage is
// an independently addressable agent reachable through this package.
package a2a

// AgentCard describes an agent's capabilities, served from the
// well-known discovery endpoint.
type AgentCard struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
	Version      string  `json:"version"`
	Skills       []Skill `json:"skills"`
	Capabilities struct {
		Streaming bool `json:"streaming"`
	} `json:"capabilities"`
	DefaultInputModes  []string `json:"defaultInputModes"`
	DefaultOutputModes []string `json:"defaultOutputModes"`
}

// Skill describes a single capability of the agent.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Part is one content part of a message or artifact. Only text parts are
// used by the pipeline.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

// Message is a protocol message carrying the JSON-encoded stage payload.
type Message struct {
	Kind      string `json:"kind,omitempty"`
	Role      string `json:"role"`
	MessageID string `json:"messageId"`
	Parts     []Part `json:"parts"`
}

// Artifact is a produced output attached to a task response.
type Artifact struct {
	Parts []Part `json:"parts"`
}

// TaskStatus is the status block of a task-shaped response.
type TaskStatus struct {
	State   string   `json:"state,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// Result is the union of the response shapes a remote stage may answer
// with: a direct message, or a task wrapper with artifacts or a status
// message. The non-overlapping fields let one struct decode all three.
type Result struct {
	Kind      string      `json:"kind,omitempty"`
	Parts     []Part      `json:"parts,omitempty"`
	Artifacts []Artifact  `json:"artifacts,omitempty"`
	Status    *TaskStatus `json:"status,omitempty"`
}

// Text extracts the textual payload from whichever response shape the
// stage used. The second return is false when no text part is present.
func (r Result) Text() (string, bool) {
	if r.Kind == "message" && len(r.Parts) > 0 {
		return firstText(r.Parts)
	}
	if len(r.Artifacts) > 0 {
		if s, ok := firstText(r.Artifacts[0].Parts); ok {
			return s, true
		}
	}
	if r.Status != nil && r.Status.Message != nil {
		return firstText(r.Status.Message.Parts)
	}
	return "", false
}

func firstText(parts []Part) (string, bool) {
	for _, p := range parts {
		if p.Kind == "text" {
			return p.Text, true
		}
	}
	return "", false
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Message Message `json:"message"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Result  *Result   `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}
