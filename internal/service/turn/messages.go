package turn

// TokenAnotherExercise is the continuation token sent after an exercise is
// finished. The reply to the next turn decides whether another one starts.
const TokenAnotherExercise = "DO_ANOTHER_EXERCISE"

// Utterance fragments. A turn's utterance joins the fragments it produced
// with single spaces.
const (
	msgWelcome       = "Welcome to word finding practice."
	msgWelcomeBack   = "Welcome back."
	msgFirstQuestion = "Here's your first question:"
	msgNextQuestion  = "Next question:"
	msgCorrect       = "Correct!"
	msgTryAgain      = "That's not quite right. Try again."
	msgAnswerWas     = "That's not right. The answer was:"
	msgMoveOn        = "Let's move on."
	msgFinished      = "You've finished this exercise! Would you like to try another one?"
	msgGoodbye       = "Okay. Goodbye!"
	msgNoExercises   = "Sorry, there are no exercises available right now. Please try again later."
)

// affirmatives are the replies that accept another exercise.
var affirmatives = map[string]struct{}{
	"yes": {},
	"ok":  {},
}
