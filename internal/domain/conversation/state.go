package conversation

// State is a closed set of conversation phases. The zero value is not a
// valid state; new conversations start in StateGreeting.
type State string

const (
	StateGreeting            State = "greeting"
	StateCollectingDate      State = "collecting_date"
	StateCollectingTime      State = "collecting_time"
	StateCollectingPartySize State = "collecting_party_size"
	StateCollectingName      State = "collecting_name"
	StateCollectingPhone     State = "collecting_phone"
	StateConfirming          State = "confirming"
	StateCompleted           State = "completed"
)

// orderedStates is the canonical linear path. Corrections may jump between
// collection states, but "next missing field" follows this order.
var orderedStates = []State{
	StateGreeting,
	StateCollectingDate,
	StateCollectingTime,
	StateCollectingPartySize,
	StateCollectingName,
	StateCollectingPhone,
	StateConfirming,
	StateCompleted,
}

func OrderedStates() []State {
	out := make([]State, len(orderedStates))
	copy(out, orderedStates)
	return out
}

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	for _, st := range orderedStates {
		if s == st {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// Field names the context slots a conversation collects.
type Field string

const (
	FieldDate            Field = "date"
	FieldTime            Field = "time"
	FieldPartySize       Field = "party_size"
	FieldName            Field = "name"
	FieldPhone           Field = "phone"
	FieldEmail           Field = "email"
	FieldSpecialRequests Field = "special_requests"
)

// requiredFields is the canonical collection order; email and special
// requests are optional.
var requiredFields = []Field{
	FieldDate,
	FieldTime,
	FieldPartySize,
	FieldName,
	FieldPhone,
}

var collectionStateByField = map[Field]State{
	FieldDate:      StateCollectingDate,
	FieldTime:      StateCollectingTime,
	FieldPartySize: StateCollectingPartySize,
	FieldName:      StateCollectingName,
	FieldPhone:     StateCollectingPhone,
}

func RequiredFields() []Field {
	out := make([]Field, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// CollectionStateFor maps a required field to the state that collects it.
func CollectionStateFor(f Field) (State, bool) {
	s, ok := collectionStateByField[f]
	return s, ok
}

func (f Field) String() string {
	return string(f)
}
