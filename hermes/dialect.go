package hermes

import "slices"

// dialectDefault is the dialect pieces render for when no engine specific
// producer asked for something else.
const dialectDefault = ""

var supportedEngines = []string{
	EnginePostgres,
	EngineSQLite,
}

// Producer builds the statements for one dialect.
type Producer func() ([]QueryString, error)

type dialects struct {
	Default   Producer
	Overrides map[string]Producer
}

func (d dialects) resolve(engineType string) (Producer, error) {
	if !slices.Contains(supportedEngines, engineType) {
		return nil, &UnsupportedEngineError{Tag: engineType}
	}

	if producer, found := d.Overrides[engineType]; found && producer != nil {
		return producer, nil
	}

	return d.Default, nil
}

func single(querystring QueryString, err error) ([]QueryString, error) {
	if err != nil {
		return nil, err
	}

	return []QueryString{querystring}, nil
}
