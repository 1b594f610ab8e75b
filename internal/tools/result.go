package tools

// Result is the outcome of a tool call. Failed results still carry text the model can
// reason about.
type Result struct {
	Text   string
	Failed bool
}

func Success(text string) Result {
	return Result{Text: text}
}

func Failure(text string) Result {
	return Result{Text: text, Failed: true}
}

func (r Result) String() string {
	return r.Text
}
