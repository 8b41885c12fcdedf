package hermes

// Output controls how rows are shaped before they are returned. AsObjects and
// AsList are alternatives; AsJSON applies on top of either.
type Output struct {
	AsObjects bool
	AsList    bool
	AsJSON    bool
}

type outputDelegate struct {
	output Output
}

func (delegate *outputDelegate) setOutput(output Output) {
	delegate.output = output
}
