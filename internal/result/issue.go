package result

// Issue is a single problem reported by a tool. It carries no position of
// its own; the store places it at a (file, line) coordinate.
type Issue struct {
	Tool    string `json:"tool" yaml:"tool"`
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}
