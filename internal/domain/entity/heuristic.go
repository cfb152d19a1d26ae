package entity

// Heuristic is one of the usability principles the model is asked to check.
type Heuristic struct {
	Name        string
	Description string
}

// Heuristics is the fixed rubric, in the order it is presented to the model.
var Heuristics = []Heuristic{
	{
		Name:        "Visibility of system status",
		Description: "The system should always keep users informed about what is going on, through appropriate feedback within a reasonable time.",
	},
	{
		Name:        "Match between system and the real world",
		Description: "The system should speak the user's language, with words, phrases, and concepts familiar to the user, rather than system-oriented terms.",
	},
	{
		Name:        "User control and freedom",
		Description: `Users often choose system functions by mistake and will need a clearly marked "emergency exit" to leave the unwanted state without having to go through an extended dialogue.`,
	},
	{
		Name:        "Consistency and standards",
		Description: "Users should not have to wonder whether different words, situations, or actions mean the same thing. Follow platform conventions.",
	},
	{
		Name:        "Error prevention",
		Description: "Even better than good error messages is a careful design that prevents a problem from occurring in the first place.",
	},
	{
		Name:        "Recognition rather than recall",
		Description: "Minimize the user's memory load by making objects, actions, and options visible. The user should not have to remember information from one part of the dialogue to another.",
	},
	{
		Name:        "Flexibility and efficiency of use",
		Description: "Accelerators—unseen by the novice user—may often speed up the interaction for the expert user such that the system can cater to both inexperienced and experienced users.",
	},
	{
		Name:        "Aesthetic and minimalist design",
		Description: "Dialogues should not contain irrelevant or rarely needed information.",
	},
	{
		Name:        "Help users recognize, diagnose, and recover from errors",
		Description: "Error messages should be expressed in plain language (no codes), precisely indicate the problem, and constructively suggest a solution.",
	},
	{
		Name:        "Help and documentation",
		Description: "Even though it is better if the system can be used without documentation, it may be necessary to provide help and documentation. Any such information should be easy to search, focused on the user's task, list concrete steps to be carried out, and not be too large.",
	},
}

// IsKnownHeuristic reports whether name matches one of Heuristics exactly.
func IsKnownHeuristic(name string) bool {
	for _, h := range Heuristics {
		if h.Name == name {
			return true
		}
	}
	return false
}

// HeuristicFinding is the model's verdict for a single heuristic.
type HeuristicFinding struct {
	Heuristic      string `json:"heuristic" jsonschema:"name of the heuristic"`
	Violated       bool   `json:"violated" jsonschema:"whether the UI violates the heuristic"`
	Reason         string `json:"reason" jsonschema:"why the heuristic is or is not violated"`
	Recommendation string `json:"recommendation,omitempty" jsonschema:"actionable recommendation, only present when violated"`
}

// EvaluationResult keeps the order the model returned. Ten findings are
// expected but fewer are accepted.
type EvaluationResult []HeuristicFinding
