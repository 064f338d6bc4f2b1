package models

// ChatMessage is one turn of the assistant conversation. Role "bot" marks
// assistant turns; anything else is the user.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatOptimizations struct {
	HistoryLimited  bool `json:"historyLimited"`
	PromptOptimized bool `json:"promptOptimized"`
	OutputLimited   bool `json:"outputLimited"`
}

type ChatReply struct {
	Text          string             `json:"text"`
	CostOptimized bool               `json:"costOptimized"`
	Source        string             `json:"source"`
	Optimizations *ChatOptimizations `json:"optimizations,omitempty"`
}
