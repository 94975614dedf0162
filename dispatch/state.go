package dispatch

// State is a call frame's position in the call state machine.
type State uint8

const (
	StateIdle State = iota
	StateSignatureResolved
	StateInputsCoerced
	StateNativeCallCompleted
	StateOutputsCoerced
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateSignatureResolved:   "signature-resolved",
	StateInputsCoerced:       "inputs-coerced",
	StateNativeCallCompleted: "native-call-completed",
	StateOutputsCoerced:      "outputs-coerced",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// next is the only state each state may advance to; failures go to Idle.
var next = [...]State{
	StateIdle:                StateSignatureResolved,
	StateSignatureResolved:   StateInputsCoerced,
	StateInputsCoerced:       StateNativeCallCompleted,
	StateNativeCallCompleted: StateOutputsCoerced,
	StateOutputsCoerced:      StateIdle,
}
