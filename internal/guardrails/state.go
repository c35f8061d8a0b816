package guardrails

type State int

const (
	StateStart State = iota
	StateModerationCheck
	StateTopicCheck
	StateGenerate
	StateContractCheck
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateModerationCheck:
		return "moderation"
	case StateTopicCheck:
		return "topic"
	case StateGenerate:
		return "generate"
	case StateContractCheck:
		return "contract"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Fixed user facing messages. They never include user text.
const (
	MessageModeration        = "I'm sorry, but I can't help with that request."
	MessageOffTopic          = "I'm sorry, I can only answer questions within the topics I support."
	MessageContractViolation = "I'm sorry, I couldn't produce a reliable answer. Please try rephrasing your question."
)
