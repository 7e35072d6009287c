package api

// LintRequest is the request body for a lint run. Either Content must be
// set (Path then only names the document in diagnostics), or Path must
// point to a posting the server can read.
type LintRequest struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
}

// LintResponse is the outcome of a lint run. Output carries the content
// after the fix checks ran; the server never writes it back.
type LintResponse struct {
	Path        string   `json:"path"`
	Diagnostics []string `json:"diagnostics"`
	Flagged     bool     `json:"flagged"`
	Changed     bool     `json:"changed"`
	Output      string   `json:"output,omitempty"`
}

// ChecksResponse lists the enabled checks in execution order.
type ChecksResponse struct {
	Checks []string `json:"checks"`
}
