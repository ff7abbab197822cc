package splitter

import "fmt"

// RecordError is a conversion failure attributed to one record.
type RecordError struct {
	ID   string
	Name string
	Err  error
}

func (e *RecordError) Error() string {
	id := e.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("record %s (%s): %v", id, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
